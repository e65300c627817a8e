package enrich

import "github.com/reviewscout/enrich-cli/internal/model"

// SplitComplete partitions records into those that already carry both a
// phone number and an email address, and those still needing enrichment.
// Website is deliberately not part of the completeness test: it is
// usually already known from the originating search, while phone and
// email are the expensive fields to obtain.
func SplitComplete(records []model.BusinessRecord) (complete, needsEnrichment []model.BusinessRecord) {
	for _, rec := range records {
		if rec.Phone != "" && rec.Email != "" {
			complete = append(complete, rec)
		} else {
			needsEnrichment = append(needsEnrichment, rec)
		}
	}
	return complete, needsEnrichment
}
