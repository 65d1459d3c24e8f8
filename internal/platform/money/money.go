// Package money converts between the FPL tenths representation (52 = 5.2)
// and currency units.
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// FromTenths converts tenths into currency units.
func FromTenths(tenths int64) decimal.Decimal {
	return decimal.New(tenths, -1)
}

// ToTenths converts a currency amount into tenths, rounding down.
func ToTenths(units float64) (int64, error) {
	if math.IsNaN(units) || math.IsInf(units, 0) {
		return 0, fmt.Errorf("amount must be finite, got %v", units)
	}
	return decimal.NewFromFloat(units).Shift(1).Floor().IntPart(), nil
}

// Format renders tenths as a currency amount with one decimal place.
func Format(tenths int64) string {
	return FromTenths(tenths).StringFixed(1)
}
