package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/model"
	"github.com/reviewscout/enrich-cli/pkg/google"
)

// DetailsConnector resolves phone and website through a structured
// place-details lookup. It is the cheapest and most reliable source,
// so it runs first, but only for records that carry a live place
// identifier. Single attempt, no retries.
type DetailsConnector struct {
	places google.Client
}

// NewDetails creates the structured-details connector.
func NewDetails(places google.Client) *DetailsConnector {
	return &DetailsConnector{places: places}
}

func (d *DetailsConnector) Name() string { return "details" }

// Applicable requires a live place ID and a phone or website gap.
func (d *DetailsConnector) Applicable(rec model.BusinessRecord) bool {
	return rec.HasLivePlaceID() && (rec.Phone == "" || rec.Website == "")
}

func (d *DetailsConnector) Lookup(ctx context.Context, rec model.BusinessRecord) (*model.ContactCandidate, error) {
	place, err := d.places.PlaceDetails(ctx, rec.PlaceID)
	if err != nil {
		return nil, err
	}

	cand := &model.ContactCandidate{
		Phone:   place.Phone(),
		Website: place.WebsiteURI,
	}
	if cand.Empty() {
		zap.L().Debug("source: details lookup returned no contact data",
			zap.String("place_id", rec.PlaceID),
		)
		return nil, nil
	}
	return cand, nil
}
