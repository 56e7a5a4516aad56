// Package export writes EERR and break-even tables to an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/iwvelando/store-eerr/internal/breakeven"
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
	"github.com/iwvelando/store-eerr/pkg/ufindex"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names.
const (
	SheetEERR      = "EERR"
	SheetBreakEven = "Breakeven"
	SheetRent      = "Arriendo"
	SheetUF        = "UF"
	SheetInfo      = "Info"
)

// Missing is written in place of NaN values.
const Missing = "-"

// headerColor fills the header row of every sheet.
const headerColor = "366092"

// Report is everything written to one workbook. Empty tables are skipped.
type Report struct {
	RunID          string
	GeneratedAt    time.Time
	Snapshot       string
	ReferenceMonth time.Time
	CurrentUF      float64
	UFByMonth      ufindex.Averages
	EERR           []model.EERRRow
	BreakEven      []model.BreakEvenRow
	Rent           []breakeven.RentDetails
}

// Exporter builds workbooks.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an exporter. If logger is nil, it will use a no-op logger.
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// Build lays the report out in a new workbook.
func (e *Exporter) Build(r Report) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	w := &sheetWriter{f: f, header: headerStyle}

	first := true
	add := func(name string, fill func(*sheetWriter, string) error) error {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := fill(w, name); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
		return nil
	}

	if len(r.EERR) > 0 {
		if err := add(SheetEERR, func(w *sheetWriter, s string) error { return w.eerr(s, r.EERR) }); err != nil {
			return nil, err
		}
	}
	if len(r.BreakEven) > 0 {
		if err := add(SheetBreakEven, func(w *sheetWriter, s string) error { return w.breakEven(s, r.BreakEven) }); err != nil {
			return nil, err
		}
	}
	if len(r.Rent) > 0 {
		if err := add(SheetRent, func(w *sheetWriter, s string) error { return w.rent(s, r.Rent) }); err != nil {
			return nil, err
		}
	}
	if len(r.UFByMonth) > 0 {
		if err := add(SheetUF, func(w *sheetWriter, s string) error { return w.uf(s, r.UFByMonth) }); err != nil {
			return nil, err
		}
	}
	if err := add(SheetInfo, func(w *sheetWriter, s string) error { return w.info(s, r) }); err != nil {
		return nil, err
	}

	e.logger.Info("workbook built",
		zap.String("op", "export.Build"),
		zap.String("runID", r.RunID),
		zap.Int("eerrRows", len(r.EERR)),
		zap.Int("breakEvenRows", len(r.BreakEven)),
		zap.Strings("sheets", f.GetSheetList()),
	)
	return f, nil
}

// Write builds the report and writes the workbook to w.
func (e *Exporter) Write(out io.Writer, r Report) error {
	f, err := e.Build(r)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save builds the report and saves the workbook at path.
func (e *Exporter) Save(path string, r Report) error {
	f, err := e.Build(r)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	e.logger.Info("workbook saved", zap.String("op", "export.Save"), zap.String("path", path))
	return nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
}

func (w *sheetWriter) headers(sheet string, names []string) error {
	values := make([]interface{}, len(names))
	for i, n := range names {
		values[i] = n
	}
	if err := w.f.SetSheetRow(sheet, "A1", &values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		return err
	}
	return w.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *sheetWriter) row(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(sheet, cell, &values)
}

// cellValue replaces NaN, which a workbook cannot hold, with Missing.
func cellValue(v float64) interface{} {
	if mathutil.IsMissing(v) {
		return Missing
	}
	return v
}

func (w *sheetWriter) eerr(sheet string, rows []model.EERRRow) error {
	names := []string{"Sucursal", "Banner", "Mes", "Escenario", "Es_presupuesto"}
	for _, def := range model.MetricDefs {
		names = append(names, def.ID)
	}
	if err := w.headers(sheet, names); err != nil {
		return err
	}
	for i, r := range rows {
		values := []interface{}{r.Store, r.Banner, r.Month.Format(constants.DateTimeLayout), r.Scenario, r.IsBudget}
		for _, def := range model.MetricDefs {
			values = append(values, cellValue(def.Value(r.Metrics)))
		}
		if err := w.row(sheet, i+2, values); err != nil {
			return err
		}
	}
	if err := w.f.SetColWidth(sheet, "A", "B", 20); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(names))
	if err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "C", lastCol, 16)
}

func (w *sheetWriter) breakEven(sheet string, rows []model.BreakEvenRow) error {
	sorted := append([]model.BreakEvenRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Store != sorted[j].Store {
			return sorted[i].Store < sorted[j].Store
		}
		return sorted[i].MarginPct < sorted[j].MarginPct
	})

	if err := w.headers(sheet, []string{"Sucursal", "Margen_contribucion", "Venta_necesaria"}); err != nil {
		return err
	}
	for i, r := range sorted {
		if err := w.row(sheet, i+2, []interface{}{r.Store, mathutil.Round(r.MarginPct, 2), cellValue(r.RequiredSales)}); err != nil {
			return err
		}
	}
	if err := w.f.SetColWidth(sheet, "A", "A", 25); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "B", "B", 22); err != nil {
		return err
	}
	return w.f.SetColWidth(sheet, "C", "C", 20)
}

func (w *sheetWriter) rent(sheet string, details []breakeven.RentDetails) error {
	if err := w.headers(sheet, []string{"Sucursal", "Arriendo_minimo", "Arriendo_minimo_diciembre", "Umbral_variable", "Umbral_variable_diciembre"}); err != nil {
		return err
	}
	for i, d := range details {
		values := []interface{}{d.Store, d.MinimumRent, d.MinimumRentDecember, cellValue(d.Threshold), cellValue(d.ThresholdDecember)}
		if err := w.row(sheet, i+2, values); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(sheet, "A", "E", 24)
}

func (w *sheetWriter) uf(sheet string, averages ufindex.Averages) error {
	if err := w.headers(sheet, []string{"Mes", "UF_promedio"}); err != nil {
		return err
	}
	for i, m := range averages.Months() {
		if err := w.row(sheet, i+2, []interface{}{m.Format(constants.DateTimeLayout), averages[m]}); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(sheet, "A", "B", 14)
}

func (w *sheetWriter) info(sheet string, r Report) error {
	if err := w.headers(sheet, []string{"Campo", "Valor"}); err != nil {
		return err
	}
	reference := ""
	if !r.ReferenceMonth.IsZero() {
		reference = r.ReferenceMonth.Format(constants.DateTimeLayout)
	}
	generated := ""
	if !r.GeneratedAt.IsZero() {
		generated = r.GeneratedAt.UTC().Format(time.RFC3339)
	}
	rows := [][]interface{}{
		{"run_id", r.RunID},
		{"generado", generated},
		{"snapshot", r.Snapshot},
		{"mes_referencia", reference},
		{"uf_vigente", cellValue(nonZero(r.CurrentUF))},
	}
	for i, values := range rows {
		if err := w.row(sheet, i+2, values); err != nil {
			return err
		}
	}
	return w.f.SetColWidth(sheet, "A", "B", 40)
}

func nonZero(v float64) float64 {
	if v == 0 {
		return math.NaN()
	}
	return v
}
