// Package phone reduces raw phone input to the canonical 10-digit identity
// key used for registrations, OTP challenges, and login lookups.
package phone

import "strings"

const countryCode = "91"

// Normalize strips non-digits, drops a leading country code when the number
// is longer than 10 digits, and keeps the rightmost 10 digits. The result is
// idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 && strings.HasPrefix(digits, countryCode) {
		return digits[len(digits)-10:]
	}
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// IsValid reports whether the normalized form of raw is exactly 10 digits.
func IsValid(raw string) bool {
	return len(Normalize(raw)) == 10
}

// E164 renders a normalized number with the country code prefix for SMS
// provider dispatch. Invalid input is returned unchanged.
func E164(raw string) string {
	n := Normalize(raw)
	if len(n) != 10 {
		return raw
	}
	return countryCode + n
}
