// Package output renders EERR, break-even and currency-index results for
// the terminal or as CSV.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/store-eerr/internal/breakeven"
	"github.com/iwvelando/store-eerr/internal/eerr"
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/format"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
	"github.com/iwvelando/store-eerr/pkg/ufindex"
	"github.com/shopspring/decimal"
)

const valueWidth = 14

func metricValue(kind model.MetricKind, v float64) string {
	if kind == model.KindPercent {
		return format.Percent(v)
	}
	return format.NumericCurrency(v)
}

// PrettyEERR writes one table per store with months as columns.
func PrettyEERR(w io.Writer, tables []eerr.StoreTable) {
	labelWidth := 0
	for _, def := range model.MetricDefs {
		if n := utf8.RuneCountInString(def.Label); n > labelWidth {
			labelWidth = n
		}
	}

	for i, t := range tables {
		fmt.Fprintf(w, "--- EERR for store %s (%s) ---\n", t.Store, t.Banner)

		fmt.Fprintf(w, "%-*s", labelWidth, "Month")
		for _, m := range t.Months {
			fmt.Fprintf(w, " | %*s", valueWidth, m.Format(constants.DateTimeLayout))
		}
		fmt.Fprintf(w, "\n%-*s", labelWidth, "Scenario")
		for _, s := range t.Scenarios {
			fmt.Fprintf(w, " | %*s", valueWidth, s)
		}
		fmt.Fprintf(w, "\n%s", strings.Repeat("_", labelWidth))
		for range t.Months {
			fmt.Fprintf(w, " | %s", strings.Repeat("_", valueWidth))
		}
		fmt.Fprintln(w)

		for r, def := range model.MetricDefs {
			fmt.Fprintf(w, "%-*s", labelWidth, def.Label)
			for _, v := range t.Values[r] {
				fmt.Fprintf(w, " | %*s", valueWidth, metricValue(def.Kind, v))
			}
			fmt.Fprintln(w)
		}
		if i < len(tables)-1 {
			fmt.Fprintln(w)
		}
	}
}

// PrettyBreakEven writes the required sales per store and margin, followed
// by the store's rent details when known.
func PrettyBreakEven(w io.Writer, rows []model.BreakEvenRow, details []breakeven.RentDetails) {
	byStore := make(map[string]breakeven.RentDetails, len(details))
	for _, d := range details {
		byStore[d.Store] = d
	}

	var stores []string
	grouped := make(map[string][]model.BreakEvenRow)
	for _, r := range rows {
		if _, ok := grouped[r.Store]; !ok {
			stores = append(stores, r.Store)
		}
		grouped[r.Store] = append(grouped[r.Store], r)
	}
	sort.Strings(stores)

	for i, store := range stores {
		fmt.Fprintf(w, "--- Break-even for store %s ---\n", store)
		if d, ok := byStore[store]; ok {
			fmt.Fprintf(w, "Minimum rent: %s (December %s)\n", format.Currency(d.MinimumRent), format.Currency(d.MinimumRentDecember))
			fmt.Fprintf(w, "Variable rent threshold: %s (December %s)\n", format.Currency(d.Threshold), format.Currency(d.ThresholdDecember))
		}
		fmt.Fprintf(w, "Margin | %*s\n", valueWidth+2, "Required sales")
		fmt.Fprintf(w, "______ | %s\n", strings.Repeat("_", valueWidth+2))
		for _, r := range grouped[store] {
			fmt.Fprintf(w, "%6s | %*s\n", format.Percent(r.MarginPct), valueWidth+2, format.Currency(r.RequiredSales))
		}
		if i < len(stores)-1 {
			fmt.Fprintln(w)
		}
	}
}

// PrettyUF writes the monthly currency-index averages.
func PrettyUF(w io.Writer, averages ufindex.Averages) {
	fmt.Fprintf(w, "Month   | %*s\n", valueWidth, "UF average")
	fmt.Fprintf(w, "_____   | %s\n", strings.Repeat("_", valueWidth))
	for _, m := range averages.Months() {
		fmt.Fprintf(w, "%s | %*s\n", m.Format(constants.DateTimeLayout), valueWidth, format.Index(averages[m]))
	}
}

// csvNumber renders v rounded to places, or empty when missing.
func csvNumber(v float64, places int32) string {
	if mathutil.IsMissing(v) {
		return ""
	}
	return decimal.NewFromFloat(v).Round(places).String()
}

// CsvEERR writes EERR rows in long format, one row per store, month and
// scenario. Missing values are empty cells.
func CsvEERR(w io.Writer, rows []model.EERRRow) error {
	cw := csv.NewWriter(w)
	header := []string{"store", "banner", "month", "scenario", "is_budget"}
	for _, def := range model.MetricDefs {
		header = append(header, def.ID)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Store, r.Banner, r.Month.Format(constants.DateTimeLayout), r.Scenario, strconv.FormatBool(r.IsBudget)}
		for _, def := range model.MetricDefs {
			places := int32(0)
			if def.Kind == model.KindPercent {
				places = 2
			}
			record = append(record, csvNumber(def.Value(r.Metrics), places))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvBreakEven writes break-even rows.
func CsvBreakEven(w io.Writer, rows []model.BreakEvenRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"store", "margin_pct", "required_sales"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Store, csvNumber(r.MarginPct, 2), csvNumber(r.RequiredSales, 0)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvUF writes the monthly currency-index averages.
func CsvUF(w io.Writer, averages ufindex.Averages) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"month", "uf_average"}); err != nil {
		return err
	}
	for _, m := range averages.Months() {
		if err := cw.Write([]string{m.Format(constants.DateTimeLayout), csvNumber(averages[m], 2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
