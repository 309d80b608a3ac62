package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const displayPlaces = 2

// Round rounds half away from zero to two decimal places.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(displayPlaces).Float64()
	return f
}

func percentOf(base, percentage float64) float64 {
	return base * percentage / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
