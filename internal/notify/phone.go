package notify

import "strings"

// DefaultCountryCode is prepended to bare 10-digit local numbers.
const DefaultCountryCode = "91"

// NormalizePhone canonicalizes a customer phone number to digits with a
// country code. Local 10-digit numbers get DefaultCountryCode; numbers
// already carrying it pass through. Returns false when the input cannot
// be a dialable number.
func NormalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	number = strings.TrimPrefix(number, "00")
	for strings.HasPrefix(number, "0") {
		number = number[1:]
	}

	switch {
	case len(number) == 10:
		return DefaultCountryCode + number, true
	case len(number) == 12 && strings.HasPrefix(number, DefaultCountryCode):
		return number, true
	case len(number) >= 11 && len(number) <= 15:
		return number, true
	default:
		return "", false
	}
}

// LocalPart strips the default country code for providers that want
// bare 10-digit numbers.
func LocalPart(normalized string) string {
	if len(normalized) == 12 && strings.HasPrefix(normalized, DefaultCountryCode) {
		return normalized[2:]
	}
	return normalized
}
