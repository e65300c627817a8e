package source

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/model"
	"github.com/reviewscout/enrich-cli/pkg/google"
)

// MapSearchConnector recovers contact data by re-searching the business
// name when no live place identifier is available (imported records).
// The best-matching result's contact fields are returned. Single
// attempt, no retries.
type MapSearchConnector struct {
	places google.Client
	// regionCode hints the search locale, e.g. "NL".
	regionCode string
}

// NewMapSearch creates the map-search fallback connector.
func NewMapSearch(places google.Client, regionCode string) *MapSearchConnector {
	return &MapSearchConnector{places: places, regionCode: strings.ToUpper(regionCode)}
}

func (m *MapSearchConnector) Name() string { return "mapsearch" }

// Applicable requires the absence of a live place ID and at least one
// contact gap.
func (m *MapSearchConnector) Applicable(rec model.BusinessRecord) bool {
	if rec.HasLivePlaceID() || rec.Title == "" {
		return false
	}
	return rec.Phone == "" || rec.Website == "" || rec.Email == ""
}

func (m *MapSearchConnector) Lookup(ctx context.Context, rec model.BusinessRecord) (*model.ContactCandidate, error) {
	query := rec.Title
	if rec.Address != "" {
		query += ", " + rec.Address
	}

	resp, err := m.places.TextSearch(ctx, query, m.regionCode)
	if err != nil {
		return nil, err
	}
	if len(resp.Places) == 0 {
		zap.L().Debug("source: map search found no matches",
			zap.String("query", query),
		)
		return nil, nil
	}

	best := resp.Places[0]
	cand := &model.ContactCandidate{
		Phone:   best.Phone(),
		Website: best.WebsiteURI,
	}
	if cand.Empty() {
		return nil, nil
	}
	return cand, nil
}
