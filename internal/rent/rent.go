// Package rent implements the two-regime lease model: a minimum rent
// priced in currency-index units against a percentage of sales.
package rent

import (
	"math"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
)

// NormalizeRate reads a percentage rate above 1 as a raw percent (5 -> 0.05).
func NormalizeRate(rate float64) float64 {
	if rate > 1 {
		return rate / constants.PercentageMultiplier
	}
	return rate
}

// MinimumRent prices the minimum rent for a month. The December factor is
// applied only when december is true.
func MinimumRent(terms model.RentTerms, indexValue float64, december bool) float64 {
	factor := 1.0
	if december {
		factor = terms.Factor()
	}
	return terms.VMMUF * indexValue * factor
}

// VariableRentThreshold returns the sales at which the percentage rent
// equals the minimum rent. ok is false when the minimum rent or the rate is
// not positive or the result is not finite.
func VariableRentThreshold(minimumRent, percentageRate float64) (threshold float64, ok bool) {
	if minimumRent <= 0 {
		return 0, false
	}
	rate := NormalizeRate(percentageRate)
	if rate <= 0 {
		return 0, false
	}
	threshold = minimumRent / rate
	if mathutil.IsMissing(threshold) || threshold <= 0 {
		return 0, false
	}
	return threshold, true
}

// ThresholdOrInf returns the variable-rent threshold or +Inf when the store
// never switches to the percentage regime.
func ThresholdOrInf(minimumRent, percentageRate float64) float64 {
	if t, ok := VariableRentThreshold(minimumRent, percentageRate); ok {
		return t
	}
	return math.Inf(1)
}

// Breakdown is the monthly rent split into its components.
type Breakdown struct {
	Minimum       float64
	Percentage    float64
	Base          float64
	Fixed         float64
	Variable      float64
	PromotionFund float64
	GGCC          float64
	Total         float64
}

// Split computes the rent of a month. The effective base is the larger of
// the minimum rent and the percentage rent; the part above the minimum is
// variable and Fixed+Variable always equals Base.
func Split(terms model.RentTerms, minimumRent, sales float64) Breakdown {
	b := Breakdown{
		Minimum:    minimumRent,
		Percentage: sales * NormalizeRate(terms.PercentageRate),
		GGCC:       terms.GGCC,
	}
	b.Base = math.Max(b.Percentage, b.Minimum)
	b.Variable = math.Max(0, b.Base-b.Minimum)
	b.Fixed = b.Base - b.Variable
	b.PromotionFund = terms.PromotionPct * (b.Fixed + b.Variable)
	b.Total = b.Fixed + b.Variable + b.PromotionFund + b.GGCC
	return b
}
