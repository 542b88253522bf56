package checkout

import "strings"

const phoneDigits = 11

// NormalizePhone reduces input to at most 11 digits of a Russian number with
// a leading 7. A bare 10-digit number (no "+") is a subscriber number and
// gets a 7 prepended whatever its first digit. Otherwise a leading 8 is
// rewritten to 7, any other leading digit gets a 7 prepended, and digits
// past the eleventh are dropped.
func NormalizePhone(input string) string {

	var b strings.Builder
	b.Grow(phoneDigits)

	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return ""
	}

	international := strings.HasPrefix(strings.TrimSpace(input), "+")

	switch {
	case !international && len(digits) == phoneDigits-1:
		digits = "7" + digits
	case digits[0] == '7':
	case digits[0] == '8':
		digits = "7" + digits[1:]
	default:
		digits = "7" + digits
	}

	if len(digits) > phoneDigits {
		digits = digits[:phoneDigits]
	}

	return digits
}

// FormatPhone renders as much of "+7 XXX XXX-XX-XX" as the input has digits for.
func FormatPhone(input string) string {

	digits := NormalizePhone(input)
	if digits == "" {
		return ""
	}

	groups := []struct {
		sep        string
		start, end int
	}{
		{" ", 1, 4},
		{" ", 4, 7},
		{"-", 7, 9},
		{"-", 9, 11},
	}

	var b strings.Builder
	b.WriteString("+7")

	for _, g := range groups {
		if len(digits) <= g.start {
			break
		}
		b.WriteString(g.sep)
		b.WriteString(digits[g.start:min(g.end, len(digits))])
	}

	return b.String()
}

// E164 is the submitted form of a complete number, e.g. "+79991234567".
func E164(input string) string {
	digits := NormalizePhone(input)
	if len(digits) != phoneDigits {
		return ""
	}

	return "+" + digits
}
