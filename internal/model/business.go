// Package model defines the business records flowing through the
// enrichment pipeline and the aggregate statistics it reports.
package model

import (
	"strings"
	"time"
)

// ImportedPlaceIDPrefix marks place identifiers that were synthesized
// during an import rather than issued by the maps provider. Records
// carrying such an identifier cannot be looked up by place ID.
const ImportedPlaceIDPrefix = "imported_"

// BusinessRecord is a single business entry, usually originating from a
// review extraction or a spreadsheet import. Contact fields are filled
// in by the enrichment pipeline; populated fields are never overwritten.
type BusinessRecord struct {
	Title   string `json:"title"`
	Address string `json:"address"`
	// PlaceID is the opaque maps-provider key. Empty or
	// ImportedPlaceIDPrefix-ed for imported records.
	PlaceID string `json:"placeId,omitempty"`
	URL     string `json:"url,omitempty"`

	Phone       string            `json:"phone,omitempty"`
	Website     string            `json:"website,omitempty"`
	Email       string            `json:"email,omitempty"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`

	TotalScore   float64 `json:"totalScore,omitempty"`
	ReviewsCount int     `json:"reviewsCount,omitempty"`

	ContactEnriched bool       `json:"contactEnriched,omitempty"`
	EnrichmentDate  *time.Time `json:"enrichmentDate,omitempty"`
}

// HasLivePlaceID reports whether the record carries a place identifier
// usable for a structured details lookup.
func (b BusinessRecord) HasLivePlaceID() bool {
	return b.PlaceID != "" && !strings.HasPrefix(b.PlaceID, ImportedPlaceIDPrefix)
}

// HasContact reports whether any contact field is populated.
func (b BusinessRecord) HasContact() bool {
	return b.Phone != "" || b.Website != "" || b.Email != ""
}

// ContactCandidate is the ephemeral result of a single source lookup.
// It is merged into a BusinessRecord gap-filling only: a candidate
// field is applied only when the record's field is still empty.
type ContactCandidate struct {
	Phone       string            `json:"phone,omitempty"`
	Website     string            `json:"website,omitempty"`
	Email       string            `json:"email,omitempty"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`
}

// Empty reports whether the candidate carries no usable data.
func (c ContactCandidate) Empty() bool {
	return c.Phone == "" && c.Website == "" && c.Email == "" && len(c.SocialMedia) == 0
}

// EnrichmentStats summarizes a single pipeline run.
type EnrichmentStats struct {
	TotalInput      int  `json:"totalInput"`
	SkippedComplete int  `json:"skippedComplete"`
	Deduplicated    int  `json:"deduplicated"`
	WithPhone       int  `json:"withPhone"`
	WithWebsite     int  `json:"withWebsite"`
	WithEmail       int  `json:"withEmail"`
	Success         bool `json:"success"`
}
