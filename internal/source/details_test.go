package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewscout/enrich-cli/internal/model"
	"github.com/reviewscout/enrich-cli/pkg/google"
)

func TestDetails_Applicable(t *testing.T) {
	conn := NewDetails(&fakePlaces{})

	tests := []struct {
		name string
		rec  model.BusinessRecord
		want bool
	}{
		{"live id with gaps", model.BusinessRecord{PlaceID: "ChIJx", Website: "https://a.nl"}, true},
		{"live id phone gap only", model.BusinessRecord{PlaceID: "ChIJx", Website: "https://a.nl", Email: "e@a.nl"}, true},
		{"no place id", model.BusinessRecord{Title: "Acme"}, false},
		{"imported id", model.BusinessRecord{PlaceID: "imported_7"}, false},
		{"phone and website filled", model.BusinessRecord{PlaceID: "ChIJx", Phone: "+3120", Website: "https://a.nl"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conn.Applicable(tt.rec))
		})
	}
}

func TestDetails_Lookup(t *testing.T) {
	places := &fakePlaces{
		details: func(_ context.Context, placeID string) (*google.Place, error) {
			assert.Equal(t, "ChIJx", placeID)
			return &google.Place{
				ID:                       "ChIJx",
				InternationalPhoneNumber: "+31 20 123 4567",
				NationalPhoneNumber:      "020 123 4567",
				WebsiteURI:               "https://acme.nl",
			}, nil
		},
	}

	cand, err := NewDetails(places).Lookup(context.Background(), model.BusinessRecord{PlaceID: "ChIJx"})
	require.NoError(t, err)
	require.NotNil(t, cand)
	assert.Equal(t, "+31 20 123 4567", cand.Phone)
	assert.Equal(t, "https://acme.nl", cand.Website)
}

func TestDetails_LookupNoContactData(t *testing.T) {
	places := &fakePlaces{
		details: func(context.Context, string) (*google.Place, error) {
			return &google.Place{ID: "ChIJx"}, nil
		},
	}

	cand, err := NewDetails(places).Lookup(context.Background(), model.BusinessRecord{PlaceID: "ChIJx"})
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestDetails_LookupError(t *testing.T) {
	places := &fakePlaces{
		details: func(context.Context, string) (*google.Place, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	_, err := NewDetails(places).Lookup(context.Background(), model.BusinessRecord{PlaceID: "ChIJx"})
	assert.Error(t, err)
}
