// Package money keeps settlement arithmetic in integer cents. Billable
// amounts are computed and transmitted as int64 cents and only rendered as
// fixed-point decimals at the storage and display boundaries; float64 never
// touches an amount.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RateToCents converts an hourly rate expressed in currency units (e.g. 30.00)
// to integer cents per hour.
func RateToCents(rate decimal.Decimal) int64 {
	return rate.Mul(hundred).Round(0).IntPart()
}

// CentsToDecimal renders integer cents as a fixed-point decimal amount in
// currency units (23625 -> 236.25) for storage.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// FormatCents renders integer cents as a human-readable dollar string for
// invoice line-item descriptions (23625 -> "$236.25").
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%s", CentsToDecimal(cents).StringFixed(2))
}

// MulHoursCents multiplies a decimal hour count by a cents-per-hour rate and
// rounds to whole cents.
func MulHoursCents(hours decimal.Decimal, centsPerHour int64) int64 {
	return hours.Mul(decimal.NewFromInt(centsPerHour)).Round(0).IntPart()
}

// PercentOfCents returns round(cents × percent / 100) in cents.
func PercentOfCents(cents int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(percent).Div(hundred).Round(0).IntPart()
}
