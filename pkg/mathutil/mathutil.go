// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/store-eerr/pkg/constants"
)

// NaN returns the not-a-number sentinel used for missing metrics.
func NaN() float64 {
	return math.NaN()
}

// IsMissing reports whether a value is NaN or infinite.
func IsMissing(val float64) bool {
	return math.IsNaN(val) || math.IsInf(val, 0)
}

// Round rounds a value to the given number of decimals.
func Round(val float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// SafeDiv divides num by den, returning fallback when den is zero or the
// quotient is not finite.
func SafeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	q := num / den
	if IsMissing(q) {
		return fallback
	}
	return q
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	return SafeDiv(value, total, 0) * constants.PercentageMultiplier
}
