package notify

import (
	"regexp"
	"strings"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// NormalizePhone converts a local-format phone number to E.164 using the
// given country calling code (e.g. "+63"). Numbers already carrying a "+"
// are kept as-is. The second return value reports whether the result is a
// valid E.164 number; invalid numbers must be skipped, not retried.
func NormalizePhone(raw, countryCode string) (string, bool) {
	if raw == "" {
		return "", false
	}

	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", false
	}

	if !strings.HasPrefix(digits, "+") {
		// Strip the trunk prefix and prepend the country code.
		digits = strings.TrimPrefix(digits, "0")
		digits = countryCode + digits
	}

	return digits, e164Pattern.MatchString(digits)
}
