// Package format renders pesos, currency-index quotes and percentages for
// human-readable output.
package format

import (
	"fmt"

	"github.com/iwvelando/store-eerr/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Missing is printed for NaN values.
const Missing = "-"

// Currency returns whole pesos with a dollar sign and thousands separators
// (e.g., "-$1,234,568").
func Currency(amount float64) string {
	if mathutil.IsMissing(amount) {
		return Missing
	}
	return sign(amount, 0) + "$" + grouped(amount, 0)
}

// NumericCurrency is Currency without the symbol (e.g., "-1,234,568").
func NumericCurrency(amount float64) string {
	if mathutil.IsMissing(amount) {
		return Missing
	}
	return sign(amount, 0) + grouped(amount, 0)
}

// Index returns a currency-index quote with two decimals (e.g., "37,512.35").
func Index(value float64) string {
	if mathutil.IsMissing(value) {
		return Missing
	}
	return sign(value, 2) + grouped(value, 2)
}

// Percent returns a 0-100 percentage with one decimal (e.g., "-9.5%").
func Percent(value float64) string {
	if mathutil.IsMissing(value) {
		return Missing
	}
	return sign(value, 1) + grouped(value, 1) + "%"
}

// Round rounds half away from zero to the given number of decimals.
func Round(value float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(places)
}

func sign(value float64, places int32) string {
	if Round(value, places).IsNegative() {
		return "-"
	}
	return ""
}

func grouped(value float64, places int32) string {
	d := Round(value, places).Abs()
	p := message.NewPrinter(language.English)
	if places == 0 {
		return p.Sprintf("%d", d.IntPart())
	}
	return p.Sprintf(fmt.Sprintf("%%.%df", places), d.InexactFloat64())
}
