package contacts

import "strings"

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone форматирует североамериканские номера:
//
//	5551234567  -> (555) 123-4567
//	15551234567 -> +1 (555) 123-4567
//
// Остальное возвращается как ввели.
func NormalizePhone(raw string) string {
	d := DigitsOnly(raw)
	switch {
	case len(d) == 10:
		return "(" + d[0:3] + ") " + d[3:6] + "-" + d[6:]
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	default:
		return raw
	}
}
