// Package fetch performs direct page retrieval for the website
// fallback, including the binary-garbage guard applied to every payload
// before it is treated as text.
package fetch

import (
	"mime"
	"strings"

	"github.com/rotisserie/eris"
)

// maxBinaryFraction is the tolerated share of non-printable bytes
// before a payload is rejected as binary garbage.
const maxBinaryFraction = 0.30

// Classify decides whether a fetched payload is readable text. The
// declared content type (may be empty) is checked first; then the byte
// distribution. A non-nil error carries the rejection reason.
func Classify(body []byte, contentType string) error {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			mediaType = strings.ToLower(strings.TrimSpace(contentType))
		}
		if mediaType != "text/html" && mediaType != "text/plain" {
			return eris.Errorf("classify: unsupported content type %q", mediaType)
		}
	}

	if frac := BinaryFraction(string(body)); frac > maxBinaryFraction {
		return eris.Errorf("classify: payload looks binary (%.0f%% non-printable)", frac*100)
	}

	return nil
}

// BinaryFraction returns the fraction of bytes outside the printable
// ASCII range, not counting common whitespace. Shared with the email
// validator's garbage guard.
func BinaryFraction(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	suspect := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 0x20 && b <= 0x7e:
		case b == '\n' || b == '\r' || b == '\t':
		default:
			suspect++
		}
	}
	return float64(suspect) / float64(len(s))
}
