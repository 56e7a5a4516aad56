// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
)

// FindRow finds the EERR row of a store, month and scenario.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []model.EERRRow, store string, month time.Time, scenario string) *model.EERRRow {
	for i := range rows {
		r := &rows[i]
		if r.Store == store && r.Month.Equal(month) && r.Scenario == scenario {
			return r
		}
	}
	return nil
}

// FindBreakEven finds the break-even row of a store at a margin percentage.
func FindBreakEven(rows []model.BreakEvenRow, store string, marginPct float64) *model.BreakEvenRow {
	for i := range rows {
		r := &rows[i]
		if r.Store == store && mathutil.WithinTolerance(r.MarginPct, marginPct, 1e-9) {
			return r
		}
	}
	return nil
}


// FlatIndex returns a daily currency-index series with a constant value
// covering every day from start through end.
func FlatIndex(start, end time.Time, value float64) []model.IndexPoint {
	var out []model.IndexPoint
	for _, d := range datetime.DaysBetween(start, end) {
		out = append(out, model.IndexPoint{Date: d, Value: value})
	}
	return out
}

// SingleStoreInputs returns a one-store snapshot with a Real and a Budget
// January row, a 37,000 currency index and a minimum rent of 100 units.
func SingleStoreInputs() *model.Inputs {
	jan := datetime.Month(2025, time.January)
	return &model.Inputs{
		Schema: model.SchemaV1,
		Stores: []model.Store{{Name: "1001-Centro", Banner: "Casa"}},
		Sales: []model.MonthlyFact{
			{Store: "1001-Centro", Month: jan, Scenario: constants.RealScenario, Value: 10_000_000},
			{Store: "1001-Centro", Month: jan, Scenario: constants.BudgetScenario, Value: 9_000_000},
		},
		Contribution: []model.MonthlyFact{
			{Store: "1001-Centro", Month: jan, Scenario: constants.RealScenario, Value: 0.30},
			{Store: "1001-Centro", Month: jan, Scenario: constants.BudgetScenario, Value: 0.28},
		},
		Headcount: []model.Headcount{},
		RoleCosts: []model.RoleCost{},
		Rent: []model.RentTerms{{
			Store:          "1001-Centro",
			VMMUF:          100,
			PercentageRate: 0.05,
			GGCC:           250_000,
			DecemberFactor: 1,
		}},
		OtherCosts: []model.BannerRate{},
		CurrencyIndex: FlatIndex(
			datetime.Day(2024, time.November, 1),
			datetime.Day(2025, time.February, 28),
			37_000,
		),
	}
}
