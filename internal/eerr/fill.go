package eerr

import (
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
)

type groupKey struct {
	store    string
	scenario string
	year     int
}

// FillMissingMonths appends an all-NaN row for every month of a
// (store, scenario, year) group that lies between its first and last
// observed month, or after the last one through December. Existing months
// are never duplicated. Filler rows keep the store's banner.
func FillMissingMonths(rows []model.EERRRow, budgetScenario string) []model.EERRRow {
	type group struct {
		banner  string
		present map[time.Month]bool
		first   time.Month
		last    time.Month
	}

	groups := make(map[groupKey]*group)
	var order []groupKey
	for _, r := range rows {
		k := groupKey{store: r.Store, scenario: r.Scenario, year: r.Month.Year()}
		g, ok := groups[k]
		if !ok {
			g = &group{banner: r.Banner, present: make(map[time.Month]bool), first: r.Month.Month(), last: r.Month.Month()}
			groups[k] = g
			order = append(order, k)
		}
		g.present[r.Month.Month()] = true
		if r.Month.Month() < g.first {
			g.first = r.Month.Month()
		}
		if r.Month.Month() > g.last {
			g.last = r.Month.Month()
		}
	}

	out := append([]model.EERRRow(nil), rows...)
	for _, k := range order {
		g := groups[k]
		for m := g.first; m <= constants.DecemberMonth; m++ {
			if g.present[m] {
				continue
			}
			g.present[m] = true
			out = append(out, model.EERRRow{
				Store:    k.store,
				Banner:   g.banner,
				Month:    datetime.Month(k.year, m),
				Scenario: k.scenario,
				IsBudget: k.scenario == budgetScenario,
				Metrics:  model.EmptyMetrics(),
			})
		}
	}
	return out
}

type monthKey struct {
	store string
	month time.Time
}

// Reconcile resolves placeholder rows per (store, month). An all-NaN row is
// dropped whenever another scenario carries data for the same key, so a
// placeholder never hides figures. When every row of a key is a
// placeholder only the real one survives, rather than dropping the real
// placeholder as well. Rows with data are always kept.
func Reconcile(rows []model.EERRRow, realScenario string) []model.EERRRow {
	hasData := make(map[monthKey]bool)
	hasRealFiller := make(map[monthKey]bool)
	for _, r := range rows {
		k := monthKey{store: r.Store, month: r.Month}
		switch {
		case !r.AllMissing():
			hasData[k] = true
		case r.Scenario == realScenario:
			hasRealFiller[k] = true
		}
	}

	out := make([]model.EERRRow, 0, len(rows))
	for _, r := range rows {
		k := monthKey{store: r.Store, month: r.Month}
		if r.AllMissing() {
			if hasData[k] {
				continue
			}
			if r.Scenario != realScenario && hasRealFiller[k] {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
