package model

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// SearchCriteria records the parameters of the review extraction that
// produced a business list.
type SearchCriteria struct {
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	MaxRating     float64 `json:"maxRating,omitempty"`
	MaxStars      int     `json:"maxStars,omitempty"`
	DayLimit      int     `json:"dayLimit,omitempty"`
	BusinessLimit int     `json:"businessLimit,omitempty"`
	MinReviews    int     `json:"minReviews,omitempty"`
	MinTextLength int     `json:"minTextLength,omitempty"`
	Language      string  `json:"language,omitempty"`
	CountryCode   string  `json:"countryCode,omitempty"`
}

// ExtractionStatistics summarizes an extraction.
type ExtractionStatistics struct {
	BusinessesFound  int     `json:"businessesFound"`
	ReviewsFound     int     `json:"reviewsFound"`
	AvgRating        float64 `json:"avgRating,omitempty"`
	ExtractionTimeMS int64   `json:"extractionTime,omitempty"`
}

// Extraction is one saved business list with its search criteria and
// statistics. The history store keys everything by Extraction.ID.
type Extraction struct {
	ID             string               `json:"id"`
	Timestamp      time.Time            `json:"timestamp"`
	SearchCriteria SearchCriteria       `json:"searchCriteria"`
	Businesses     []BusinessRecord     `json:"businesses"`
	Statistics     ExtractionStatistics `json:"statistics"`

	EnrichedAt *time.Time       `json:"enrichedAt,omitempty"`
	Enrichment *EnrichmentStats `json:"enrichment,omitempty"`
}

const extractionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewExtractionID generates an identifier in the historical format
// extraction_<unix-millis>_<9 char suffix>.
func NewExtractionID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = extractionIDAlphabet[rand.IntN(len(extractionIDAlphabet))]
	}
	return fmt.Sprintf("extraction_%d_%s", time.Now().UnixMilli(), suffix)
}
