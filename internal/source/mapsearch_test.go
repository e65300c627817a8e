package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewscout/enrich-cli/internal/model"
	"github.com/reviewscout/enrich-cli/pkg/google"
)

func TestMapSearch_Applicable(t *testing.T) {
	conn := NewMapSearch(&fakePlaces{}, "nl")

	tests := []struct {
		name string
		rec  model.BusinessRecord
		want bool
	}{
		{"imported record with gaps", model.BusinessRecord{Title: "Acme", PlaceID: "imported_1"}, true},
		{"no place id at all", model.BusinessRecord{Title: "Acme"}, true},
		{"live place id", model.BusinessRecord{Title: "Acme", PlaceID: "ChIJx"}, false},
		{"no title", model.BusinessRecord{Address: "Main St 5"}, false},
		{"fully populated", model.BusinessRecord{Title: "Acme", Phone: "+3120", Website: "https://a.nl", Email: "e@a.nl"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conn.Applicable(tt.rec))
		})
	}
}

func TestMapSearch_QueryAndBestMatch(t *testing.T) {
	places := &fakePlaces{
		search: func(_ context.Context, query, regionCode string) (*google.TextSearchResponse, error) {
			assert.Equal(t, "Acme Dental, Main St 5, Amsterdam", query)
			assert.Equal(t, "NL", regionCode)
			return &google.TextSearchResponse{Places: []google.Place{
				{NationalPhoneNumber: "020 123 4567", WebsiteURI: "https://acme.nl"},
				{NationalPhoneNumber: "020 999 9999"},
			}}, nil
		},
	}

	rec := model.BusinessRecord{Title: "Acme Dental", Address: "Main St 5, Amsterdam", PlaceID: "imported_1"}
	cand, err := NewMapSearch(places, "nl").Lookup(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, cand)
	// The first (best) match wins.
	assert.Equal(t, "020 123 4567", cand.Phone)
	assert.Equal(t, "https://acme.nl", cand.Website)
}

func TestMapSearch_NoMatches(t *testing.T) {
	places := &fakePlaces{
		search: func(context.Context, string, string) (*google.TextSearchResponse, error) {
			return &google.TextSearchResponse{}, nil
		},
	}

	cand, err := NewMapSearch(places, "NL").Lookup(context.Background(), model.BusinessRecord{Title: "Ghost"})
	require.NoError(t, err)
	assert.Nil(t, cand)
}

func TestMapSearch_QueryWithoutAddress(t *testing.T) {
	places := &fakePlaces{
		search: func(_ context.Context, query, _ string) (*google.TextSearchResponse, error) {
			assert.Equal(t, "Acme Dental", query)
			return &google.TextSearchResponse{}, nil
		},
	}

	_, err := NewMapSearch(places, "NL").Lookup(context.Background(), model.BusinessRecord{Title: "Acme Dental"})
	require.NoError(t, err)
}
