package flows

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeVerificationToken trims the raw URL token and, when it is a
// 32-character hex string with no dashes, reshapes it into the canonical
// dashed UUID form (8-4-4-4-12). Anything else passes through unchanged.
func NormalizeVerificationToken(raw string) string {
	t := strings.TrimSpace(raw)
	if len(t) == 32 && !strings.Contains(t, "-") && isHex(t) {
		return t[:8] + "-" + t[8:12] + "-" + t[12:16] + "-" + t[16:20] + "-" + t[20:]
	}
	return t
}

// IsCanonicalToken reports whether s already has the canonical dashed UUID
// shape.
func IsCanonicalToken(s string) bool {
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return strings.EqualFold(s, u.String())
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
