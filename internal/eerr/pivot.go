package eerr

import (
	"sort"
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
)

// StoreTable is the EERR of one store with months as columns and metrics
// as rows. Values[i][j] is model.MetricDefs[i] for Months[j].
type StoreTable struct {
	Store     string
	Banner    string
	Months    []time.Time
	Scenarios []string
	Values    [][]float64
}

// Value returns the metric with the given ID for a month column.
func (t StoreTable) Value(metricID string, month int) (float64, bool) {
	for i, def := range model.MetricDefs {
		if def.ID == metricID {
			return t.Values[i][month], true
		}
	}
	return 0, false
}

// Pivot lays out sorted EERR rows per store. When several scenarios share
// a month the first row in order is shown, which is the real one after
// Sort.
func Pivot(rows []model.EERRRow) []StoreTable {
	byStore := make(map[string]map[time.Time]model.EERRRow)
	banners := make(map[string]string)
	var stores []string
	for _, r := range rows {
		months, ok := byStore[r.Store]
		if !ok {
			months = make(map[time.Time]model.EERRRow)
			byStore[r.Store] = months
			banners[r.Store] = r.Banner
			stores = append(stores, r.Store)
		}
		if _, seen := months[r.Month]; !seen {
			months[r.Month] = r
		}
	}
	sort.Strings(stores)

	tables := make([]StoreTable, 0, len(stores))
	for _, store := range stores {
		months := byStore[store]
		t := StoreTable{Store: store, Banner: banners[store]}
		for m := range months {
			t.Months = append(t.Months, m)
		}
		sort.Slice(t.Months, func(i, j int) bool { return t.Months[i].Before(t.Months[j]) })

		t.Values = make([][]float64, len(model.MetricDefs))
		for i := range t.Values {
			t.Values[i] = make([]float64, len(t.Months))
		}
		t.Scenarios = make([]string, len(t.Months))
		for j, m := range t.Months {
			row := months[m]
			t.Scenarios[j] = row.Scenario
			for i, def := range model.MetricDefs {
				t.Values[i][j] = def.Value(row.Metrics)
			}
		}
		tables = append(tables, t)
	}
	return tables
}
