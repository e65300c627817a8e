package enrich

import (
	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// Dedupe collapses records that share an identity key, keeping only the
// first occurrence in input order. Later duplicates are discarded whole,
// never merged, so the result is stable and deterministic. Returns the
// kept records and the number removed.
func Dedupe(records []model.BusinessRecord) ([]model.BusinessRecord, int) {
	seen := make(map[string]struct{}, len(records))
	kept := make([]model.BusinessRecord, 0, len(records))

	for _, rec := range records {
		key := IdentityKey(rec)
		if _, dup := seen[key]; dup {
			zap.L().Debug("enrich: dropping duplicate record",
				zap.String("title", rec.Title),
				zap.String("key", key),
			)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rec)
	}

	return kept, len(records) - len(kept)
}
