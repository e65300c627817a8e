// Package source implements the lookup strategies of the contact
// enrichment fallback chain. Each connector wraps one external data
// source; connectors are idempotent, never mutate the input record, and
// report absence of data as an empty candidate rather than an error.
package source

import (
	"context"
	"strings"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// Connector is a single lookup strategy in the fallback chain.
type Connector interface {
	// Name returns the connector identifier used in logs and stats.
	Name() string
	// Applicable reports whether the connector should run for this
	// record, taking already-populated fields into account. A connector
	// whose target fields are all filled is skipped entirely.
	Applicable(rec model.BusinessRecord) bool
	// Lookup performs the outbound call and returns whatever contact
	// data was found. A nil candidate or an error both mean "no data";
	// errors are logged by the orchestrator and never abort a batch.
	Lookup(ctx context.Context, rec model.BusinessRecord) (*model.ContactCandidate, error)
}

// mapServiceHosts are URL fragments identifying map-provider pages that
// must not be treated as a business's own website.
var mapServiceHosts = []string{
	"google.com/maps",
	"google.nl/maps",
	"maps.google.",
	"maps.app.goo.gl",
	"goo.gl/maps",
}

// IsMapServiceURL reports whether the URL points at a mapping provider
// rather than the business's own site.
func IsMapServiceURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, h := range mapServiceHosts {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
