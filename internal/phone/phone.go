package phone

import "strings"

// Normalize converts a free-form phone number into an E.164-ish string
// (+<country code><digits>) using defaultCountryCode when the input carries
// no prefix of its own. It returns ok=false when nothing dialable remains.
// Only formatting is performed; carrier or region plausibility is not checked.
func Normalize(raw, defaultCountryCode string) (string, bool) {
	if raw == "" {
		return "", false
	}
	trimmed := strings.TrimSpace(raw)

	// Already internationally prefixed: keep digits and the plus sign
	if strings.HasPrefix(trimmed, "+") {
		digits := keepDigitsAndPlus(trimmed)
		if len(digits) > 4 {
			return digits, true
		}
		return "", false
	}

	digitsOnly := keepDigits(trimmed)
	digitsOnly = strings.TrimLeft(digitsOnly, "0")
	if digitsOnly == "" {
		return "", false
	}

	code := defaultCountryCode
	if !strings.HasPrefix(code, "+") {
		code = "+" + code
	}
	formatted := code + digitsOnly
	if len(formatted) > len(code) {
		return formatted, true
	}
	return "", false
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepDigitsAndPlus(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
