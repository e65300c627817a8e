// Package enrich implements the contact enrichment pipeline: identity
// resolution, deduplication, completeness filtering, and the
// concurrency-bounded orchestration of the source fallback chain.
package enrich

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/reviewscout/enrich-cli/internal/model"
)

// foldDiacritics decomposes accented characters and drops the combining
// marks, so "Café Royal" and "Cafe Royal" resolve to the same key.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// IdentityKey derives a stable identity for a business record. Records
// with a live place identifier are keyed on it; everything else falls
// back to the normalized name+address pair. Never fails: empty inputs
// yield a degenerate but valid key.
func IdentityKey(rec model.BusinessRecord) string {
	if rec.HasLivePlaceID() {
		return "place:" + rec.PlaceID
	}
	return "name_address:" + normalize(rec.Title) + "|" + normalize(rec.Address)
}

// normalize lowercases, folds diacritics, strips non-alphanumeric
// characters and collapses runs of whitespace to a single space.
func normalize(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}
