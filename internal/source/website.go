package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/extract"
	"github.com/reviewscout/enrich-cli/internal/fetch"
	"github.com/reviewscout/enrich-cli/internal/model"
	"github.com/reviewscout/enrich-cli/internal/resilience"
	"github.com/reviewscout/enrich-cli/pkg/anthropic"
)

const extractionSystem = "You are a data extraction assistant. You look up the public website of a business and return its contact details as JSON. Use null for fields you cannot determine. Return only the JSON object, no prose."

const extractionPrompt = `Business: %s
Website URL: %s

Visit the website above and extract the business contact details.
Return a JSON object with exactly this schema:
{
  "email": "primary contact email or null",
  "alternativeEmails": ["other emails found"],
  "phone": "phone number or null",
  "businessName": "official business name or null",
  "website": "canonical website URL or null",
  "address": "street address or null"
}`

// websiteContacts is the structured extraction schema.
type websiteContacts struct {
	Email             string   `json:"email"`
	AlternativeEmails []string `json:"alternativeEmails"`
	Phone             string   `json:"phone"`
	BusinessName      string   `json:"businessName"`
	Website           string   `json:"website"`
	Address           string   `json:"address"`
}

// WebsiteConnector mines a known website for email and phone. It
// prefers an AI-assisted structured extraction; when that yields no
// usable contact data it falls back to a direct page fetch plus
// pattern extraction. Only the AI call is retried.
type WebsiteConnector struct {
	ai      anthropic.Client
	model   string
	fetcher *fetch.Fetcher
	region  string
}

// NewWebsite creates the website-content connector. ai may be nil when
// the credential is missing; the connector then goes straight to the
// direct fetch path.
func NewWebsite(ai anthropic.Client, aiModel string, fetcher *fetch.Fetcher, region string) *WebsiteConnector {
	if aiModel == "" {
		aiModel = anthropic.DefaultModel
	}
	return &WebsiteConnector{ai: ai, model: aiModel, fetcher: fetcher, region: region}
}

func (w *WebsiteConnector) Name() string { return "website" }

// Applicable requires a non-empty website that is not a map-provider
// URL, and an email or phone gap.
func (w *WebsiteConnector) Applicable(rec model.BusinessRecord) bool {
	if rec.Website == "" || IsMapServiceURL(rec.Website) {
		return false
	}
	return rec.Email == "" || rec.Phone == ""
}

func (w *WebsiteConnector) Lookup(ctx context.Context, rec model.BusinessRecord) (*model.ContactCandidate, error) {
	if w.ai != nil {
		if cand := w.aiExtract(ctx, rec); cand != nil && !cand.Empty() {
			return cand, nil
		}
	}
	return w.fetchExtract(ctx, rec)
}

// aiExtract runs the structured extraction with its retry policy:
// rate limits back off exponentially from 2s, server errors linearly at
// 1s per attempt, three attempts total either way; client errors and
// exhausted retries yield no data instead of an error.
func (w *WebsiteConnector) aiExtract(ctx context.Context, rec model.BusinessRecord) *model.ContactCandidate {
	cfg := resilience.RetryConfig{
		MaxAttempts: 3,
		ShouldRetry: func(err error) bool {
			code := aiStatusCode(err)
			return code == 429 || code >= 500
		},
		Backoff: func(attempt int, err error) time.Duration {
			if aiStatusCode(err) == 429 {
				return 2 * time.Second << (attempt - 1)
			}
			return time.Duration(attempt) * time.Second
		},
		OnRetry: resilience.RetryLogger("anthropic", "extract_contacts"),
	}

	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return w.ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     w.model,
			MaxTokens: 1024,
			System:    extractionSystem,
			Messages: []anthropic.Message{{
				Role:    "user",
				Content: fmt.Sprintf(extractionPrompt, rec.Title, rec.Website),
			}},
		})
	})
	if err != nil {
		zap.L().Warn("source: ai extraction failed",
			zap.String("website", rec.Website),
			zap.Int("status", aiStatusCode(err)),
			zap.Error(err),
		)
		return nil
	}

	var contacts websiteContacts
	if err := json.Unmarshal([]byte(jsonBlock(resp.Text)), &contacts); err != nil {
		zap.L().Warn("source: ai extraction returned unparseable payload",
			zap.String("website", rec.Website),
			zap.Error(err),
		)
		return nil
	}

	return w.candidateFromContacts(contacts)
}

// candidateFromContacts validates the extracted fields; rejected values
// are dropped, never merged.
func (w *WebsiteConnector) candidateFromContacts(c websiteContacts) *model.ContactCandidate {
	cand := &model.ContactCandidate{}

	emails := append([]string{c.Email}, c.AlternativeEmails...)
	for _, raw := range emails {
		if raw == "" {
			continue
		}
		email := extract.NormalizeEmail(raw)
		if email != "" && extract.ValidEmail(email) {
			cand.Email = email
			break
		}
	}

	if c.Phone != "" {
		if phone, ok := extract.NormalizePhone(c.Phone, w.region); ok {
			cand.Phone = phone
		}
	}

	if cand.Empty() {
		return nil
	}
	return cand
}

// fetchExtract is the last-resort path: one direct page fetch followed
// by pattern extraction.
func (w *WebsiteConnector) fetchExtract(ctx context.Context, rec model.BusinessRecord) (*model.ContactCandidate, error) {
	if w.fetcher == nil {
		return nil, nil
	}

	text, err := w.fetcher.Fetch(ctx, rec.Website)
	if err != nil {
		return nil, err
	}

	cand := &model.ContactCandidate{
		Email: extract.FirstValidEmail(extract.Emails(text)),
		Phone: extract.FirstPhone(text, w.region),
	}
	if cand.Empty() {
		zap.L().Debug("source: page fetch yielded no contact data",
			zap.String("website", rec.Website),
		)
		return nil, nil
	}
	return cand, nil
}

// aiStatusCode resolves the HTTP status behind an AI call failure,
// whether it surfaced as an SDK error or a wrapped transport error.
func aiStatusCode(err error) int {
	if code := anthropic.StatusCode(err); code != 0 {
		return code
	}
	return resilience.StatusCode(err)
}

// jsonBlock trims code fences and surrounding prose down to the
// outermost JSON object.
func jsonBlock(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
