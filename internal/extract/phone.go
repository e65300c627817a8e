package extract

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used when the search criteria carry no country
// hint. The review extractions this tool was built around are Dutch.
const DefaultPhoneRegion = "NL"

// phonePatterns cover the formats seen on small-business sites:
// international +-prefixed numbers and two common national notations.
var phonePatterns = []*regexp.Regexp{
	// International: +31 20 123 4567, +1-212-555-0147
	regexp.MustCompile(`\+\d{1,3}[\s\-.]?\(?\d{1,4}\)?(?:[\s\-.]?\d{2,4}){2,4}`),
	// Dutch national: 020-1234567, 0612345678
	regexp.MustCompile(`\b0\d{1,3}[\s\-]?\d{6,8}\b`),
	// Parenthesized area code: (020) 123 4567
	regexp.MustCompile(`\(\d{2,4}\)\s?\d{3}[\s\-.]?\d{4}`),
}

// Phones extracts candidate phone numbers from text and normalizes them
// to E.164 using the given default region. Unparseable or invalid
// candidates are discarded. Discovery order is preserved, duplicates
// removed.
func Phones(text, region string) []string {
	if region == "" {
		region = DefaultPhoneRegion
	}
	region = strings.ToUpper(region)

	seen := make(map[string]struct{})
	var out []string
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			normalized, ok := NormalizePhone(m, region)
			if !ok {
				continue
			}
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			out = append(out, normalized)
		}
	}
	return out
}

// FirstPhone returns the first valid phone number found in text, or "".
func FirstPhone(text, region string) string {
	if phones := Phones(text, region); len(phones) > 0 {
		return phones[0]
	}
	return ""
}

// NormalizePhone parses a raw match and formats it as E.164. Returns
// false for numbers the metadata considers impossible or invalid.
func NormalizePhone(raw, region string) (string, bool) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsPossibleNumber(num) || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
