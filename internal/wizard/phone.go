package wizard

import "strings"

// NormalizePhone reduces a free-form phone number to digits plus an
// optional leading +, e.g. "+44 7379 005-856" becomes "+447379005856".
func NormalizePhone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(value))
	if value[0] == '+' {
		b.WriteByte('+')
	}
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
