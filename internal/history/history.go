// Package history persists extraction records (business lists plus
// their search criteria) keyed by an opaque extraction identifier. The
// enrichment pipeline itself never persists; the commands wire a Store
// around the pipeline call.
package history

import (
	"context"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// Store is the extraction-history contract.
type Store interface {
	// Save inserts a new extraction. The ID must be unique.
	Save(ctx context.Context, ex *model.Extraction) error
	// Load returns the extraction with the given ID, or nil when absent.
	Load(ctx context.Context, id string) (*model.Extraction, error)
	// List returns up to limit extractions, newest first.
	List(ctx context.Context, limit int) ([]model.Extraction, error)
	// UpdateEnrichment replaces the business list and records the
	// enrichment stats for an extraction.
	UpdateEnrichment(ctx context.Context, id string, businesses []model.BusinessRecord, stats model.EnrichmentStats) error

	Migrate(ctx context.Context) error
	Close() error
}
