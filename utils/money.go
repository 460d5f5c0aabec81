package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney reads a display price such as "35", "35.00" or "35,00".
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError("price", "%q is not a monetary amount", s)
	}
	return d, nil
}

// RoundCents rounds half away from zero to two decimal places.
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
