package utils

import "github.com/shopspring/decimal"

// RoundTwoPlaces arredonda para duas casas, metade para longe do zero.
func RoundTwoPlaces(f float64) float64 {
	if f == 0 {
		return 0
	}

	rounded, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return rounded
}
