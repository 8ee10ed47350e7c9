package dealform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeField_MonetaryKeepsDigitsOnly(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"mixed letters and digits", "1abc2c00", "1200"},
		{"thousands separators", "1,500,000", "1500000"},
		{"currency prefix", "AED 2500", "2500"},
		{"plain digits", "42", "42"},
		{"decimal point stripped", "12.50", "1250"},
		{"empty", "", ""},
		{"letters only", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeField("salesValue", tt.input))
		})
	}
}

func TestSanitizeField_AppliesToAllMonetaryFields(t *testing.T) {
	for _, field := range []string{"salesValue", "downpayment", "size", "agentCommissionValue", "dealCommissionValue"} {
		assert.Equal(t, "500", SanitizeField(field, "5a0b0"), "field %s", field)
	}
}

func TestSanitizeField_RateKeepsFirstDecimalPoint(t *testing.T) {
	assert.Equal(t, "2.5", SanitizeField("agentCommissionRate", "2.5"))
	assert.Equal(t, "2.55", SanitizeField("agentCommissionRate", "2.5.5"))
	assert.Equal(t, "25", SanitizeField("agentCommissionRate", "2a5"))
}

func TestSanitizeField_TextFieldsUntouched(t *testing.T) {
	assert.Equal(t, "Marina Heights 1A", SanitizeField("propertyName", "Marina Heights 1A"))
	assert.Equal(t, "+971 50 123 4567", SanitizeField("buyerPhone", "+971 50 123 4567"))
}
