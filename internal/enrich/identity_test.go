package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewscout/enrich-cli/internal/model"
)

func TestIdentityKey_LivePlaceID(t *testing.T) {
	rec := model.BusinessRecord{Title: "Acme Dental", PlaceID: "ChIJabc123"}
	assert.Equal(t, "place:ChIJabc123", IdentityKey(rec))
}

func TestIdentityKey_ImportedPlaceIDFallsBackToNameAddress(t *testing.T) {
	rec := model.BusinessRecord{
		Title:   "Acme Dental",
		Address: "Main St 5",
		PlaceID: "imported_42",
	}
	assert.Equal(t, "name_address:acme dental|main st 5", IdentityKey(rec))
}

func TestIdentityKey_EmptyRecord(t *testing.T) {
	assert.Equal(t, "name_address:|", IdentityKey(model.BusinessRecord{}))
}

func TestIdentityKey_DiacriticsAndCaseFold(t *testing.T) {
	a := model.BusinessRecord{Title: "Café Royal", Address: "Hoofdstraat 1"}
	b := model.BusinessRecord{Title: "CAFE ROYAL", Address: "hoofdstraat 1"}
	assert.Equal(t, IdentityKey(a), IdentityKey(b))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Acme Dental", "acme dental"},
		{"strips punctuation", "Bakkerij 't Stoepje B.V.", "bakkerij t stoepje b v"},
		{"collapses whitespace", "Acme   \t Dental", "acme dental"},
		{"folds diacritics", "Crème Brûlée", "creme brulee"},
		{"trims edges", "  Acme!  ", "acme"},
		{"keeps digits", "Route 66 Diner", "route 66 diner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}
