package dealform

import "strings"

// monetaryFields accept digits only.
var monetaryFields = map[string]bool{
	"salesValue":           true,
	"downpayment":          true,
	"size":                 true,
	"agentCommissionValue": true,
	"dealCommissionValue":  true,
}

// rateFields accept digits plus a single decimal point.
var rateFields = map[string]bool{
	"agentCommissionRate": true,
}

// SanitizeField strips characters a field does not accept. Non-numeric
// characters typed into monetary fields are dropped immediately; rate fields
// additionally keep the first decimal point.
func SanitizeField(field, value string) string {
	switch {
	case monetaryFields[field]:
		return Digits(value)
	case rateFields[field]:
		return Decimal(value)
	default:
		return value
	}
}

// Digits removes everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Decimal removes everything but 0-9 and the first '.'.
func Decimal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}
