package fingerprint

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone reduces a phone number to bare digits for exact
// matching: one leading "+1" country prefix is dropped, then every
// non-digit character. "(555) 123-4567" and "+1 555-123-4567" both
// normalize to "5551234567".
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+1")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhoneE164 parses s against the numbering plan for
// defaultRegion and reformats it to E.164 ("+15551234567"). Numbers
// that fail to parse or validate return "" when strict, otherwise
// fall back to NormalizePhone.
func NormalizePhoneE164(s, defaultRegion string, strict bool) string {
	num, err := phonenumbers.Parse(s, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		if strict {
			return ""
		}
		return NormalizePhone(s)
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
