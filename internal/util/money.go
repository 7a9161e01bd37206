package util

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxAmount is a sanity ceiling for any single monetary value.
var maxAmount = decimal.NewFromInt(100_000_000)

// centTolerance is the comparison tolerance for all monetary
// invariant checks.
var centTolerance = decimal.RequireFromString("0.01")

var printer = message.NewPrinter(language.EuropeanPortuguese)

// ParseAmount parses a monetary amount string into a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// ValidateAmount checks a non-negative monetary value against the
// sanity ceiling.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return errors.New("amount too large")
	}
	return nil
}

// ValidateDiscount checks a discount fraction, 0 <= d <= 1.
func ValidateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("discount must be between 0 and 1")
	}
	return nil
}

// ValidatePercentage checks a commission percentage, 0 <= p <= 100,
// with at most three decimal places.
func ValidatePercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percentage must be between 0 and 100")
	}
	if p.Exponent() < -3 {
		return errors.New("percentage supports at most 3 decimal places")
	}
	return nil
}

// ValidateDays checks a manually entered day count, 0 < d, fractional
// allowed.
func ValidateDays(d decimal.Decimal) error {
	if !d.IsPositive() {
		return errors.New("days must be greater than zero")
	}
	return nil
}

// Round2 rounds half-up to two decimal places, the precision of every
// stored total.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinCent reports whether two amounts agree within one cent.
func WithinCent(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(centTolerance)
}

// FormatEUR renders an amount the way the UI displays it, e.g.
// "1 500,00 €".
func FormatEUR(d decimal.Decimal) string {
	f, _ := d.Float64()
	return printer.Sprintf("%.2f €", f)
}
