// Package eerr builds the monthly profit-and-loss statement of every store.
package eerr

import (
	"math"
	"sort"
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/internal/rent"
	"github.com/iwvelando/store-eerr/internal/staff"
	"github.com/iwvelando/store-eerr/internal/storebase"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
	"github.com/iwvelando/store-eerr/pkg/mathutil"
	"github.com/iwvelando/store-eerr/pkg/ufindex"
	"go.uber.org/zap"
)

// Options configures an EERR build.
type Options struct {
	RealScenario   string
	BudgetScenario string
	Window         ufindex.Window
	Staffing       staff.Options
}

// DefaultOptions returns the standard scenario labels, window and roles.
func DefaultOptions() Options {
	return Options{
		RealScenario:   constants.RealScenario,
		BudgetScenario: constants.BudgetScenario,
		Window:         ufindex.DefaultWindow(),
		Staffing:       staff.DefaultOptions(),
	}
}

// Builder computes EERR tables.
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
	if opts.RealScenario == "" {
		opts.RealScenario = constants.RealScenario
	}
	if opts.BudgetScenario == "" {
		opts.BudgetScenario = constants.BudgetScenario
	}
	opts.Window = opts.Window.OrDefault()
	return &Builder{
		logger: logger,
		opts:   opts,
		staff:  staff.NewCalculator(logger, opts.Staffing),
	}
}

// costInputs is everything joined onto one sales fact.
type costInputs struct {
	banner      string
	margin      float64
	staffing    model.StaffingProfile
	rent        model.RentTerms
	otherRate   float64
	paymentRate float64
	network     float64
	indexValue  float64
}

// Build returns one row per (store, month, scenario) of the sales table,
// gap-filled through December and sorted by store and month.
func (b *Builder) Build(in *model.Inputs) ([]model.EERRRow, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	months := make([]time.Time, len(in.Sales))
	for i, f := range in.Sales {
		months[i] = f.Month
	}
	averages, err := ufindex.MonthlyAverage(in.CurrencyIndex, months, b.opts.Window)
	if err != nil {
		return nil, err
	}

	banners := make(map[string]string, len(in.Stores))
	for _, s := range storebase.UniqueStores(b.logger, in.Stores) {
		banners[s.Name] = s.Banner
	}
	profiles := make(map[string]model.StaffingProfile)
	for _, p := range b.staff.Profiles(in.Headcount, in.RoleCosts) {
		profiles[p.Store] = p
	}
	rents := storebase.RentByStore(in.Rent)
	other := storebase.RateByBanner(in.OtherCosts)
	payment := storebase.RateByBanner(in.PaymentCommission)
	margins := make(map[factKey]float64, len(in.Contribution))
	for _, f := range in.Contribution {
		margins[keyOf(f)] = f.Value
	}
	network := storebase.NetworkPerStore(in.Network, in.Sales)

	rows := make([]model.EERRRow, 0, len(in.Sales))
	for _, fact := range in.Sales {
		banner := banners[fact.Store]
		margin := margins[keyOf(fact)]
		if math.IsNaN(margin) {
			margin = 0
		}
		uf, _ := averages.For(fact.Month)
		ci := costInputs{
			banner:      banner,
			margin:      margin,
			staffing:    profiles[fact.Store],
			rent:        rents[fact.Store],
			otherRate:   other[banner],
			paymentRate: payment[banner],
			network:     network,
			indexValue:  uf,
		}
		row := model.EERRRow{
			Store:    fact.Store,
			Banner:   banner,
			Month:    datetime.MonthStart(fact.Month),
			Scenario: fact.Scenario,
			IsBudget: fact.Scenario == b.opts.BudgetScenario,
			Metrics:  compute(fact.Value, fact.Month, ci),
		}
		b.logger.Debug("computed eerr row",
			zap.String("op", "eerr.Build"),
			zap.String("store", row.Store),
			zap.String("month", row.Month.Format(constants.DateTimeLayout)),
			zap.String("scenario", row.Scenario),
			zap.Float64("ebitda", row.EBITDA),
		)
		rows = append(rows, row)
	}

	filled := FillMissingMonths(rows, b.opts.BudgetScenario)
	result := Reconcile(filled, b.opts.RealScenario)
	Sort(result, b.opts.RealScenario)

	b.logger.Info("eerr built",
		zap.String("op", "eerr.Build"),
		zap.Int("facts", len(in.Sales)),
		zap.Int("filled", len(filled)-len(rows)),
		zap.Int("rows", len(result)),
		zap.Float64("networkPerStore", network),
	)
	return result, nil
}

// compute derives the P&L of one store-month from its sales and joined
// cost inputs. Non-positive sales mark a closed month whose costs are zero.
// Missing sales yield an all-NaN placeholder.
func compute(sales float64, month time.Time, ci costInputs) model.Metrics {
	if math.IsNaN(sales) {
		return model.EmptyMetrics()
	}
	m := model.Metrics{
		Sales:                 sales,
		ContributionMarginPct: ci.margin * constants.PercentageMultiplier,
	}
	if sales <= 0 {
		return m
	}

	m.Contribution = sales * ci.margin
	m.CostOfSales = sales - m.Contribution

	minimum := rent.MinimumRent(ci.rent, ci.indexValue, datetime.IsDecember(month))
	r := rent.Split(ci.rent, minimum, sales)
	m.FixedRent = r.Fixed
	m.VariableRent = r.Variable
	m.PromotionFundRent = r.PromotionFund
	m.GGCC = r.GGCC
	m.TotalRent = r.Total

	m.FixedPayroll = ci.staffing.FixedCost
	m.Commissions = sales*ci.staffing.PerSellerRate() + sales*ci.staffing.SalesCommissionRate
	m.StaffingCost = m.FixedPayroll + m.Commissions

	m.NetworkCost = ci.network
	m.PaymentCommission = sales * ci.paymentRate
	m.OtherCosts = sales * ci.otherRate
	m.OperatingExpense = m.StaffingCost + m.TotalRent + m.NetworkCost + m.PaymentCommission + m.OtherCosts
	m.EBITDA = m.Contribution - m.OperatingExpense
	m.EBITDAMarginPct = mathutil.CalculatePercentage(m.EBITDA, sales)
	return m
}

type factKey struct {
	store    string
	month    time.Time
	scenario string
}

func keyOf(f model.MonthlyFact) factKey {
	return factKey{store: f.Store, month: datetime.MonthStart(f.Month), scenario: f.Scenario}
}

// Sort orders rows by store and month, real scenario first.
func Sort(rows []model.EERRRow, realScenario string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if !a.Month.Equal(b.Month) {
			return a.Month.Before(b.Month)
		}
		if (a.Scenario == realScenario) != (b.Scenario == realScenario) {
			return a.Scenario == realScenario
		}
		return a.Scenario < b.Scenario
	})
}
