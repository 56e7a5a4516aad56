// Package storebase assembles the per-store cost structure shared by the
// break-even solver and the reporting layer.
package storebase

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/internal/staff"
	"github.com/iwvelando/store-eerr/pkg/datetime"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
	"github.com/iwvelando/store-eerr/pkg/ufindex"
	"go.uber.org/zap"
)

// Options configures a store base build.
type Options struct {
	Window   ufindex.Window
	Staffing staff.Options
	// ReferenceMonth decides whether the December rent factor applies. The
	// zero value uses the latest observed sales month.
	ReferenceMonth time.Time
}

// DefaultOptions returns the standard build options.
func DefaultOptions() Options {
	return Options{Window: ufindex.DefaultWindow(), Staffing: staff.DefaultOptions()}
}

// Row is the joined cost structure of one store. Margin bounds are
// fractions and NaN when the store has no contribution history.
type Row struct {
	Store                 string
	Banner                string
	Staffing              model.StaffingProfile
	Rent                  model.RentTerms
	OtherCostRate         float64
	PaymentCommissionRate float64
	MarginMin             float64
	MarginMax             float64
	SalesMin              float64
	SalesMax              float64
	SalesMean             float64
}

// HasMarginHistory reports whether observed margin bounds are available.
func (r Row) HasMarginHistory() bool {
	return !math.IsNaN(r.MarginMin) && !math.IsNaN(r.MarginMax)
}

// Base is the result of a build.
type Base struct {
	Rows           []Row
	ReferenceMonth time.Time
	IsDecember     bool
	UFByMonth      ufindex.Averages
	CurrentUF      float64

	// NetworkPerStore is the monthly network cost charged to each store.
	NetworkPerStore float64
}

// ReferenceUF returns the latest monthly average, falling back to CurrentUF.
func (b *Base) ReferenceUF() float64 {
	if v, ok := b.UFByMonth.Latest(); ok {
		return v
	}
	return b.CurrentUF
}

// Find returns the row of the named store.
func (b *Base) Find(store string) (Row, bool) {
	for _, r := range b.Rows {
		if r.Store == store {
			return r, true
		}
	}
	return Row{}, false
}

// Builder builds store bases.
type Builder struct {
	logger *zap.Logger
	opts   Options
	staff  *staff.Calculator
}

// NewBuilder creates a builder. If logger is nil, it will use a no-op logger.
func NewBuilder(logger *zap.Logger, opts Options) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Window = opts.Window.OrDefault()
	return &Builder{
		logger: logger,
		opts:   opts,
		staff:  staff.NewCalculator(logger, opts.Staffing),
	}
}

// Build left-joins staffing, rent, banner rates and history statistics onto
// the store dictionary. Stores without a match keep zero values.
func (b *Builder) Build(in *model.Inputs) (*Base, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	profiles := make(map[string]model.StaffingProfile)
	for _, p := range b.staff.Profiles(in.Headcount, in.RoleCosts) {
		profiles[p.Store] = p
	}
	rents := RentByStore(in.Rent)
	other := RateByBanner(in.OtherCosts)
	payment := RateByBanner(in.PaymentCommission)
	margins := factStats(in.Contribution)
	sales := factStats(in.Sales)

	base := &Base{
		UFByMonth:       make(ufindex.Averages),
		NetworkPerStore: NetworkPerStore(in.Network, in.Sales),
	}
	for _, store := range UniqueStores(b.logger, in.Stores) {
		row := Row{
			Store:                 store.Name,
			Banner:                store.Banner,
			Staffing:              model.StaffingProfile{Store: store.Name},
			Rent:                  model.RentTerms{Store: store.Name},
			OtherCostRate:         other[store.Banner],
			PaymentCommissionRate: payment[store.Banner],
			MarginMin:             math.NaN(),
			MarginMax:             math.NaN(),
		}
		if p, ok := profiles[store.Name]; ok {
			row.Staffing = p
		}
		if r, ok := rents[store.Name]; ok {
			row.Rent = r
		}
		if m, ok := margins[store.Name]; ok {
			row.MarginMin, row.MarginMax = m.min, m.max
		}
		if s, ok := sales[store.Name]; ok {
			row.SalesMin, row.SalesMax, row.SalesMean = s.min, s.max, s.mean()
		}
		base.Rows = append(base.Rows, row)
	}

	months := make([]time.Time, 0, len(in.Sales))
	for _, f := range in.Sales {
		months = append(months, f.Month)
		if m := datetime.MonthStart(f.Month); m.After(base.ReferenceMonth) {
			base.ReferenceMonth = m
		}
	}
	if !b.opts.ReferenceMonth.IsZero() {
		base.ReferenceMonth = datetime.MonthStart(b.opts.ReferenceMonth)
	}
	base.IsDecember = !base.ReferenceMonth.IsZero() && datetime.IsDecember(base.ReferenceMonth)

	if len(months) > 0 {
		avgs, err := ufindex.MonthlyAverage(in.CurrencyIndex, months, b.opts.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to average currency index: %w", err)
		}
		base.UFByMonth = avgs
		base.CurrentUF, _ = avgs.Latest()
	} else {
		current, err := ufindex.Latest(in.CurrencyIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to read current currency index: %w", err)
		}
		base.CurrentUF = current
	}

	b.logger.Info("store base built",
		zap.String("op", "storebase.Build"),
		zap.Int("stores", len(base.Rows)),
		zap.Bool("december", base.IsDecember),
		zap.Float64("currentUF", base.CurrentUF),
		zap.Strings("ufByMonth", ufindex.Describe(base.UFByMonth)),
	)
	return base, nil
}

// UniqueStores drops repeated store names, keeping the first banner seen.
func UniqueStores(logger *zap.Logger, stores []model.Store) []model.Store {
	seen := make(map[string]string, len(stores))
	out := make([]model.Store, 0, len(stores))
	for _, s := range stores {
		if banner, ok := seen[s.Name]; ok {
			if banner != s.Banner && logger != nil {
				logger.Warn("store listed under several banners, keeping the first",
					zap.String("op", "storebase.UniqueStores"),
					zap.String("store", s.Name),
					zap.String("kept", banner),
					zap.String("dropped", s.Banner),
				)
			}
			continue
		}
		seen[s.Name] = s.Banner
		out = append(out, s)
	}
	return out
}

// NetworkPerStore splits the retail share of network spend evenly across
// the stores that have sales.
func NetworkPerStore(n *model.NetworkCost, sales []model.MonthlyFact) float64 {
	stores := make(map[string]struct{})
	for _, f := range sales {
		stores[f.Store] = struct{}{}
	}
	return n.Retail() / mathutil.Max(1, float64(len(stores)))
}

// RentByStore indexes rent terms by store; the first entry wins.
func RentByStore(terms []model.RentTerms) map[string]model.RentTerms {
	out := make(map[string]model.RentTerms, len(terms))
	for _, t := range terms {
		if _, ok := out[t.Store]; !ok {
			out[t.Store] = t
		}
	}
	return out
}

// RateByBanner indexes banner rates; the first entry wins.
func RateByBanner(rates []model.BannerRate) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for _, r := range rates {
		if _, ok := out[r.Banner]; !ok {
			out[r.Banner] = r.Rate
		}
	}
	return out
}

type stats struct {
	min, max, sum float64
	n             int
}

func (s stats) mean() float64 {
	return mathutil.SafeDiv(s.sum, float64(s.n), 0)
}

// factStats aggregates non-NaN values per store.
func factStats(facts []model.MonthlyFact) map[string]stats {
	out := make(map[string]stats)
	for _, f := range facts {
		if math.IsNaN(f.Value) {
			continue
		}
		s, ok := out[f.Store]
		if !ok {
			s = stats{min: f.Value, max: f.Value}
		}
		s.min = math.Min(s.min, f.Value)
		s.max = math.Max(s.max, f.Value)
		s.sum += f.Value
		s.n++
		out[f.Store] = s
	}
	return out
}
