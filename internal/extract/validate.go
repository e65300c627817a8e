package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/reviewscout/enrich-cli/internal/fetch"
)

const (
	minEmailLength  = 5
	minLocalLength  = 2
	minDomainLength = 4
	// maxNonASCIIFraction mirrors the fetch classifier's binary guard.
	maxNonASCIIFraction = 0.30
)

// emailShape is the basic local@domain.tld check applied after
// normalization (candidates are already lowercased).
var emailShape = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// placeholderFragments identify template, placeholder, and
// non-business addresses that must never be merged into a record.
var placeholderFragments = []string{
	"example.com",
	"test.com",
	"placeholder",
	"noreply@",
	"no-reply@",
	"donotreply@",
	"mailer-daemon@",
	"postmaster@",
	"admin@example",
	"user@domain",
	"your@email",
	"email@email",
	"name@company",
}

// ValidEmail reports whether a normalized candidate is acceptable as a
// business contact address. Checks run in order: shape, binary-garbage
// guard, placeholder fragments, total length, part lengths.
func ValidEmail(email string) bool {
	if !emailShape.MatchString(email) {
		return false
	}

	if fetch.BinaryFraction(email) > maxNonASCIIFraction {
		return false
	}

	for _, frag := range placeholderFragments {
		if strings.Contains(email, frag) {
			return false
		}
	}

	if len(email) < minEmailLength {
		return false
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	if len(local) < minLocalLength || len(domain) < minDomainLength {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	// A domain that cannot be IDNA-mapped cannot receive mail.
	if _, err := idna.Lookup.ToASCII(domain); err != nil {
		return false
	}

	return true
}

// FirstValidEmail returns the first candidate passing validation, or "".
func FirstValidEmail(candidates []string) string {
	for _, c := range candidates {
		if ValidEmail(c) {
			return c
		}
	}
	return ""
}
