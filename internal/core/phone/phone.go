// Package phone builds the candidate set used to resolve a transfer recipient
// from a loosely formatted phone number. Matching is lookup leniency, not
// identity resolution.
package phone

import "strings"

// Digits strips everything but 0-9 from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Candidates returns the normalized forms tried against stored phone numbers,
// plus the last-10-digits suffix used for the ends-with/contains fallback
// (empty when the input has fewer than 10 digits).
//
// The set contains the raw trimmed input, the digits-only form, a leading-"+"
// form, and, for exactly 10 digits, the "1" and "+1" country-code variants.
func Candidates(input string) (candidates []string, last10 string) {
	raw := strings.TrimSpace(input)
	digits := Digits(raw)

	add := func(c string) {
		if c == "" {
			return
		}
		for _, seen := range candidates {
			if seen == c {
				return
			}
		}
		candidates = append(candidates, c)
	}

	add(raw)
	add(digits)
	if digits != "" {
		add("+" + digits)
	}
	if len(digits) == 10 {
		add("1" + digits)
		add("+1" + digits)
	}
	if len(digits) >= 10 {
		last10 = digits[len(digits)-10:]
	}
	return candidates, last10
}

// SameNumber reports whether two stored phone numbers denote the same line,
// comparing their digits-only forms. Used for the self-transfer check.
func SameNumber(a, b string) bool {
	da, db := Digits(a), Digits(b)
	return da != "" && da == db
}
