package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasLivePlaceID(t *testing.T) {
	assert.True(t, BusinessRecord{PlaceID: "ChIJx"}.HasLivePlaceID())
	assert.False(t, BusinessRecord{}.HasLivePlaceID())
	assert.False(t, BusinessRecord{PlaceID: "imported_7"}.HasLivePlaceID())
}

func TestHasContact(t *testing.T) {
	assert.False(t, BusinessRecord{}.HasContact())
	assert.True(t, BusinessRecord{Phone: "+3120"}.HasContact())
	assert.True(t, BusinessRecord{Website: "https://acme.nl"}.HasContact())
	assert.True(t, BusinessRecord{Email: "info@acme.nl"}.HasContact())
}

func TestContactCandidate_Empty(t *testing.T) {
	assert.True(t, ContactCandidate{}.Empty())
	assert.False(t, ContactCandidate{Phone: "+3120"}.Empty())
	assert.False(t, ContactCandidate{SocialMedia: map[string]string{"facebook": "x"}}.Empty())
}

func TestBusinessRecord_JSONShape(t *testing.T) {
	rec := BusinessRecord{
		Title:        "Acme Dental",
		Address:      "Main St 5",
		PlaceID:      "ChIJx",
		Phone:        "+31201234567",
		TotalScore:   4.2,
		ReviewsCount: 31,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Acme Dental", m["title"])
	assert.Equal(t, "ChIJx", m["placeId"])
	assert.Equal(t, 31.0, m["reviewsCount"])
	// Empty contact fields are omitted entirely.
	assert.NotContains(t, m, "email")
	assert.NotContains(t, m, "contactEnriched")
	assert.NotContains(t, m, "enrichmentDate")
}
