// Package breakeven solves the sales volume at which a store's EBITDA
// reaches zero for a grid of contribution margins.
package breakeven

import (
	"context"
	"math"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/internal/rent"
	"github.com/iwvelando/store-eerr/internal/storebase"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures the solver.
type Options struct {
	// MarginStep is the full-range grid step in percentage points.
	MarginStep float64
	// UseDecemberFactor applies the December rent multiplier in the full
	// range table when the reference month is December.
	UseDecemberFactor bool
	// Workers bounds the stores solved concurrently; <= 0 means one per store.
	Workers int
}

// DefaultOptions returns the standard solver options.
func DefaultOptions() Options {
	return Options{MarginStep: constants.DefaultMarginStep}
}

// Terms is the cost structure the break-even equation is solved against.
// Rates are fractions of sales.
type Terms struct {
	Store          string
	FixedPayroll   float64
	MinimumRent    float64
	PercentageRate float64
	PromotionPct   float64
	GGCC           float64
	// FixedAllocations are other fixed monthly costs such as network spend.
	FixedAllocations float64
	// VariableRate is every sales-proportional cost except rent.
	VariableRate float64
}

// Threshold returns the variable-rent threshold, +Inf when there is none.
func (t Terms) Threshold() float64 {
	return rent.ThresholdOrInf(t.MinimumRent, t.PercentageRate)
}

// RequiredSales returns the sales at which EBITDA is zero for a margin
// fraction, or NaN when no rent regime yields a consistent solution.
func (t Terms) RequiredSales(margin float64) float64 {
	rate := rent.NormalizeRate(t.PercentageRate)
	threshold := t.Threshold()
	if t.MinimumRent <= 0 {
		// Without a minimum the percentage rent applies from the first peso.
		threshold = 0
	}
	required := math.NaN()

	// Minimum rent regime: only valid below the threshold.
	if denom := margin - t.VariableRate; denom > 0 {
		sales := (t.FixedPayroll + t.MinimumRent*(1+t.PromotionPct) + t.GGCC + t.FixedAllocations) / denom
		if rate <= 0 || sales <= threshold*(1+constants.RegimeTolerance) {
			required = sales
		}
	}

	// Percentage rent regime: only valid above the threshold.
	if rate > 0 {
		if denom := margin - t.VariableRate - rate*(1+t.PromotionPct); denom > 0 {
			sales := (t.FixedPayroll + t.GGCC + t.FixedAllocations) / denom
			if sales >= threshold*(1-constants.RegimeTolerance) {
				if math.IsNaN(required) {
					required = sales
				} else {
					required = math.Min(required, sales)
				}
			}
		}
	}

	if required < 0 || math.IsInf(required, 0) {
		return math.NaN()
	}
	return required
}

// Solver builds break-even tables from a store base.
type Solver struct {
	logger *zap.Logger
	opts   Options
}

// NewSolver creates a solver. If logger is nil, it will use a no-op logger.
func NewSolver(logger *zap.Logger, opts Options) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MarginStep <= 0 {
		opts.MarginStep = constants.DefaultMarginStep
	}
	return &Solver{logger: logger, opts: opts}
}

// HistoryTerms returns the terms of the history-grid table: the December
// factor follows the base, and network and payment costs are left out.
func HistoryTerms(base *storebase.Base, row storebase.Row) Terms {
	return terms(base, row, base.IsDecember, false)
}

// FullRangeTerms returns the terms of the full-range table, which include
// the network allocation and the payment-commission rate.
func FullRangeTerms(base *storebase.Base, row storebase.Row, useDecemberFactor bool) Terms {
	return terms(base, row, useDecemberFactor && base.IsDecember, true)
}

func terms(base *storebase.Base, row storebase.Row, december, full bool) Terms {
	t := Terms{
		Store:          row.Store,
		FixedPayroll:   row.Staffing.FixedCost,
		MinimumRent:    rent.MinimumRent(row.Rent, base.ReferenceUF(), december),
		PercentageRate: row.Rent.PercentageRate,
		PromotionPct:   row.Rent.PromotionPct,
		GGCC:           row.Rent.GGCC,
		VariableRate:   row.Staffing.PerSellerRate() + row.Staffing.SalesCommissionRate + row.OtherCostRate,
	}
	if full {
		t.FixedAllocations = base.NetworkPerStore
		t.VariableRate += row.PaymentCommissionRate
	}
	return t
}

// HistoryGrid returns the margin fractions to solve for a store: its
// observed margin range padded by ten points on each side and clamped to
// [0, 1], in steps of 0.1 points. Stores without history use 5% to 80%.
func HistoryGrid(row storebase.Row) []float64 {
	lo, hi := constants.DefaultHistoryMarginMin, constants.DefaultHistoryMarginMax
	if row.HasMarginHistory() {
		lo = mathutil.Max(0, row.MarginMin-constants.HistoryMarginPadding)
		hi = mathutil.Min(1, row.MarginMax+constants.HistoryMarginPadding)
		if hi < lo {
			lo, hi = hi, lo
		}
	}

	first := int(math.Max(0, math.Floor(lo*constants.HistoryGridResolution)))
	last := int(math.Min(constants.HistoryGridResolution, math.Ceil(hi*constants.HistoryGridResolution)))
	if last < first {
		last = first
	}
	grid := make([]float64, 0, last-first+1)
	for step := first; step <= last; step++ {
		grid = append(grid, float64(step)/constants.HistoryGridResolution)
	}
	return grid
}

// FullRangeGrid returns margin percentages from 0 to 100 at the given step.
func FullRangeGrid(step float64) []float64 {
	if step <= 0 {
		step = constants.DefaultMarginStep
	}
	n := int(math.Floor(constants.PercentageMultiplier/step + 1e-9))
	grid := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		grid = append(grid, float64(i)*step)
	}
	return grid
}

// History solves every store over its history-derived margin grid.
func (s *Solver) History(ctx context.Context, base *storebase.Base) ([]model.BreakEvenRow, error) {
	return s.solve(ctx, "breakeven.History", base, func(row storebase.Row) []model.BreakEvenRow {
		t := HistoryTerms(base, row)
		grid := HistoryGrid(row)
		out := make([]model.BreakEvenRow, 0, len(grid))
		for _, margin := range grid {
			out = append(out, model.BreakEvenRow{
				Store:         row.Store,
				MarginPct:     margin * constants.PercentageMultiplier,
				RequiredSales: t.RequiredSales(margin),
			})
		}
		return out
	})
}

// FullRange solves every store over the 0-100% margin grid. Stores are
// solved concurrently; rows keep the store order of the base.
func (s *Solver) FullRange(ctx context.Context, base *storebase.Base) ([]model.BreakEvenRow, error) {
	grid := FullRangeGrid(s.opts.MarginStep)
	return s.solve(ctx, "breakeven.FullRange", base, func(row storebase.Row) []model.BreakEvenRow {
		t := FullRangeTerms(base, row, s.opts.UseDecemberFactor)
		out := make([]model.BreakEvenRow, 0, len(grid))
		for _, pct := range grid {
			out = append(out, model.BreakEvenRow{
				Store:         row.Store,
				MarginPct:     pct,
				RequiredSales: t.RequiredSales(pct / constants.PercentageMultiplier),
			})
		}
		return out
	})
}

func (s *Solver) solve(ctx context.Context, op string, base *storebase.Base, fn func(storebase.Row) []model.BreakEvenRow) ([]model.BreakEvenRow, error) {
	perStore := make([][]model.BreakEvenRow, len(base.Rows))

	g, ctx := errgroup.WithContext(ctx)
	if s.opts.Workers > 0 {
		g.SetLimit(s.opts.Workers)
	}
	for i, row := range base.Rows {
		i, row := i, row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perStore[i] = fn(row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []model.BreakEvenRow
	solved := 0
	for _, storeRows := range perStore {
		for _, r := range storeRows {
			if r.Solved() {
				solved++
			}
		}
		rows = append(rows, storeRows...)
	}

	s.logger.Info("break-even table built",
		zap.String("op", op),
		zap.Int("stores", len(base.Rows)),
		zap.Int("rows", len(rows)),
		zap.Int("solved", solved),
		zap.Bool("december", base.IsDecember),
	)
	return rows, nil
}

// RentDetails describes the rent regime boundary of a store.
type RentDetails struct {
	Store               string
	MinimumRent         float64
	MinimumRentDecember float64
	// Threshold values are NaN when the store never pays percentage rent.
	Threshold         float64
	ThresholdDecember float64
}

// Details returns the rent details of every store in the base.
func Details(base *storebase.Base) []RentDetails {
	out := make([]RentDetails, 0, len(base.Rows))
	uf := base.ReferenceUF()
	for _, row := range base.Rows {
		d := RentDetails{
			Store:               row.Store,
			MinimumRent:         rent.MinimumRent(row.Rent, uf, false),
			MinimumRentDecember: rent.MinimumRent(row.Rent, uf, true),
			Threshold:           mathutil.NaN(),
			ThresholdDecember:   mathutil.NaN(),
		}
		if t, ok := rent.VariableRentThreshold(d.MinimumRent, row.Rent.PercentageRate); ok {
			d.Threshold = t
		}
		if t, ok := rent.VariableRentThreshold(d.MinimumRentDecember, row.Rent.PercentageRate); ok {
			d.ThresholdDecember = t
		}
		out = append(out, d)
	}
	return out
}
