package util

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"zero", "0", false},
		{"typical", "1500.50", false},
		{"just below ceiling", "99999999.99", false},
		{"negative", "-0.01", true},
		{"at ceiling", "100000000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(dec(tt.amount))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(dec("0")))
	assert.NoError(t, ValidateDiscount(dec("0.15")))
	assert.NoError(t, ValidateDiscount(dec("1")))
	assert.Error(t, ValidateDiscount(dec("-0.1")))
	assert.Error(t, ValidateDiscount(dec("1.01")))
}

func TestValidatePercentage(t *testing.T) {
	assert.NoError(t, ValidatePercentage(dec("0")))
	assert.NoError(t, ValidatePercentage(dec("5.125")))
	assert.NoError(t, ValidatePercentage(dec("100")))
	assert.Error(t, ValidatePercentage(dec("-1")))
	assert.Error(t, ValidatePercentage(dec("100.001")))
	// four decimal places exceed the supported precision
	assert.Error(t, ValidatePercentage(dec("5.1255")))
}

func TestValidateDays(t *testing.T) {
	assert.NoError(t, ValidateDays(dec("0.5")))
	assert.NoError(t, ValidateDays(dec("3")))
	assert.Error(t, ValidateDays(dec("0")))
	assert.Error(t, ValidateDays(dec("-1")))
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"}, // half rounds up
		{"10.004", "10.00"},
		{"92.25", "92.25"},
		{"-1.005", "-1.01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(dec(tt.in)).StringFixed(2), "Round2(%s)", tt.in)
	}
}

func TestWithinCent(t *testing.T) {
	assert.True(t, WithinCent(dec("100"), dec("100")))
	assert.True(t, WithinCent(dec("100.005"), dec("100")))
	assert.True(t, WithinCent(dec("100"), dec("100.009")))
	assert.False(t, WithinCent(dec("100"), dec("100.01")))
	assert.False(t, WithinCent(dec("100"), dec("99.98")))
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("1234.56")
	assert.NoError(t, err)
	assert.Equal(t, "1234.56", d.StringFixed(2))

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}
