// Package extract finds and validates contact data (emails, phone
// numbers) in raw page text.
package extract

import (
	"regexp"
	"strings"
)

// maxEmailCandidates caps the number of candidates returned per page.
const maxEmailCandidates = 3

// emailPatterns is the ordered set of targeted extraction patterns.
// Order matters only for discovery order of candidates; all patterns
// are applied.
var emailPatterns = []*regexp.Regexp{
	// Plain addresses.
	regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	// HTML-entity and URL-encoded @.
	regexp.MustCompile(`[a-zA-Z0-9._%+\-]+(?:&#64;|%40)[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	// Human-obfuscated [at] / (at).
	regexp.MustCompile(`(?i)[a-zA-Z0-9._%+\-]+\s*[\[(]\s*at\s*[\])]\s*[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	// Spaced-out @.
	regexp.MustCompile(`[a-zA-Z0-9._%+\-]+\s+@\s+[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	// mailto: links, bare or inside href attributes.
	regexp.MustCompile(`(?i)(?:href\s*=\s*["']?)?mailto:[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	// Quoted strings containing an address.
	regexp.MustCompile(`["'][a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}["']`),
	// Very common business prefixes, tolerant of surrounding noise.
	regexp.MustCompile(`(?i)\b(?:info|contact|sales|support|reservations|booking)@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
}

// permissiveEmail is the diagnostic last-resort scan used only when no
// targeted pattern matched anything.
var permissiveEmail = regexp.MustCompile(`\S+@\S+`)

// Emails extracts normalized candidate email addresses from a text
// blob. Candidates are deduplicated after normalization, keep their
// discovery order, and are capped at 3.
func Emails(text string) []string {
	var raw []string
	for _, re := range emailPatterns {
		raw = append(raw, re.FindAllString(text, -1)...)
	}
	if len(raw) == 0 {
		raw = permissiveEmail.FindAllString(text, -1)
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, m := range raw {
		email := NormalizeEmail(m)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
		if len(out) == maxEmailCandidates {
			break
		}
	}
	return out
}

var (
	obfuscatedAt = regexp.MustCompile(`(?i)\s*(?:&#64;|%40|[\[(]\s*at\s*[\])])\s*`)
	spacedAt     = regexp.MustCompile(`\s*@\s*`)
)

// NormalizeEmail converts a raw pattern match into canonical form:
// wrapping (mailto:, href=, quotes) stripped, obfuscated @ decoded,
// whitespace around @ collapsed, lowercased.
func NormalizeEmail(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip href/mailto wrapping and quoting in that order, so
	// href="mailto:x@y" unwraps fully.
	lower := strings.ToLower(s)
	if idx := strings.Index(lower, "href"); idx == 0 {
		s = s[4:]
		s = strings.TrimLeft(s, " \t=")
	}
	s = strings.Trim(s, `"'`)
	if len(s) >= 7 && strings.EqualFold(s[:7], "mailto:") {
		s = s[7:]
	}

	s = obfuscatedAt.ReplaceAllString(s, "@")
	s = spacedAt.ReplaceAllString(s, "@")
	s = strings.Trim(s, `"'<>.,;:`)
	s = strings.ToLower(s)

	if strings.Count(s, "@") != 1 {
		return ""
	}
	return s
}
