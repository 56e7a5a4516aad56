package eerr

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
	"github.com/iwvelando/store-eerr/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const store = "1001-Centro"

var (
	jan = datetime.Month(2025, time.January)
	feb = datetime.Month(2025, time.February)
)

func TestBuildSingleStoreScenario(t *testing.T) {
	rows, err := NewBuilder(zap.NewNop(), DefaultOptions()).Build(testutil.SingleStoreInputs())
	require.NoError(t, err)

	realRow := testutil.FindRow(rows, store, jan, constants.RealScenario)
	require.NotNil(t, realRow)
	assert.False(t, realRow.IsBudget)
	assert.Equal(t, "Casa", realRow.Banner)
	assert.InDelta(t, 10_000_000, realRow.Sales, 1e-6)
	assert.InDelta(t, 3_000_000, realRow.Contribution, 1e-6)
	assert.InDelta(t, 7_000_000, realRow.CostOfSales, 1e-6)
	assert.InDelta(t, 30, realRow.ContributionMarginPct, 1e-9)
	assert.InDelta(t, 3_700_000, realRow.FixedRent, 1e-6)
	assert.Zero(t, realRow.VariableRent)
	assert.Zero(t, realRow.PromotionFundRent)
	assert.InDelta(t, 250_000, realRow.GGCC, 1e-9)
	assert.InDelta(t, 3_950_000, realRow.TotalRent, 1e-6)
	assert.InDelta(t, 3_950_000, realRow.OperatingExpense, 1e-6)
	assert.InDelta(t, -950_000, realRow.EBITDA, 1e-6)
	assert.InDelta(t, -9.5, realRow.EBITDAMarginPct, 1e-9)

	budgetRow := testutil.FindRow(rows, store, jan, constants.BudgetScenario)
	require.NotNil(t, budgetRow, "budget row with data must be retained")
	assert.True(t, budgetRow.IsBudget)
	assert.InDelta(t, 9_000_000, budgetRow.Sales, 1e-6)
	assert.InDelta(t, 2_520_000, budgetRow.Contribution, 1e-6)
	assert.InDelta(t, 3_950_000, budgetRow.TotalRent, 1e-6)
	assert.InDelta(t, -1_430_000, budgetRow.EBITDA, 1e-6)

	// January carries both scenarios; February to December one placeholder each.
	assert.Len(t, rows, 13)
	assert.Equal(t, constants.RealScenario, rows[0].Scenario)
	assert.Equal(t, constants.BudgetScenario, rows[1].Scenario)
	for _, r := range rows[2:] {
		assert.Equal(t, constants.RealScenario, r.Scenario)
		assert.True(t, r.AllMissing())
		assert.Equal(t, "Casa", r.Banner)
	}
	assert.Equal(t, datetime.Month(2025, time.December), rows[len(rows)-1].Month)
}

func TestBuildRentReconciles(t *testing.T) {
	in := testutil.SingleStoreInputs()
	in.Rent[0].PromotionPct = 0.02
	sales := []float64{0.5, 1_000_000, 74_000_000, 100_000_000, 250_000_000}
	in.Sales = nil
	in.Contribution = []model.MonthlyFact{}
	for i, v := range sales {
		in.Sales = append(in.Sales, model.MonthlyFact{
			Store: store, Month: jan, Scenario: string(rune('A' + i)), Value: v,
		})
	}

	rows, err := NewBuilder(nil, DefaultOptions()).Build(in)
	require.NoError(t, err)

	for _, r := range rows {
		if r.AllMissing() || r.Month != jan {
			continue
		}
		minimum := 3_700_000.0
		percentage := r.Sales * 0.05
		base := r.FixedRent + r.VariableRent
		assert.Equal(t, math.Max(minimum, percentage), base, "scenario %s", r.Scenario)
		assert.GreaterOrEqual(t, r.VariableRent, 0.0)
		assert.InDelta(t, 0.02*base, r.PromotionFundRent, 1e-6)
		assert.InDelta(t, base+r.PromotionFundRent+r.GGCC, r.TotalRent, 1e-6)
	}

	high := testutil.FindRow(rows, store, jan, "E")
	require.NotNil(t, high)
	assert.InDelta(t, 3_700_000, high.FixedRent, 1e-6)
	assert.InDelta(t, 8_800_000, high.VariableRent, 1e-6)
}

func TestBuildCostComponents(t *testing.T) {
	in := testutil.SingleStoreInputs()
	in.Schema = model.SchemaV2
	in.Stores = append(in.Stores, model.Store{Name: "2002-Norte", Banner: "Casa"})
	in.Sales = append(in.Sales, model.MonthlyFact{
		Store: "2002-Norte", Month: jan, Scenario: constants.RealScenario, Value: 5_000_000,
	})
	in.Headcount = []model.Headcount{{
		Store: store,
		Roles: []model.RoleCount{
			{Role: model.RoleManager, Count: 1},
			{Role: model.RoleFullTime, Count: 2},
		},
	}}
	in.RoleCosts = []model.RoleCost{
		{Role: model.RoleManager, Fixed: 1_000_000, Commission: 0.004},
		{Role: model.RoleFullTime, Fixed: 500_000, Commission: 0.01},
	}
	in.OtherCosts = []model.BannerRate{{Banner: "Casa", Rate: 0.02}}
	in.PaymentCommission = []model.BannerRate{{Banner: "Casa", Rate: 0.015}}
	in.Network = &model.NetworkCost{MonthlySpend: 1_000_000, RetailShare: 0.6}

	rows, err := NewBuilder(nil, DefaultOptions()).Build(in)
	require.NoError(t, err)

	r := testutil.FindRow(rows, store, jan, constants.RealScenario)
	require.NotNil(t, r)
	assert.InDelta(t, 2_000_000, r.FixedPayroll, 1e-6)
	// 2 sellers sharing a summed 0.02 rate plus 0.4% of total sales.
	assert.InDelta(t, 10_000_000*0.01+10_000_000*0.004, r.Commissions, 1e-6)
	assert.InDelta(t, r.FixedPayroll+r.Commissions, r.StaffingCost, 1e-6)
	assert.InDelta(t, 300_000, r.NetworkCost, 1e-6)
	assert.InDelta(t, 150_000, r.PaymentCommission, 1e-6)
	assert.InDelta(t, 200_000, r.OtherCosts, 1e-6)
	assert.InDelta(t, r.StaffingCost+r.TotalRent+r.NetworkCost+r.PaymentCommission+r.OtherCosts,
		r.OperatingExpense, 1e-6)
	assert.InDelta(t, r.Contribution-r.OperatingExpense, r.EBITDA, 1e-6)

	other := testutil.FindRow(rows, "2002-Norte", jan, constants.RealScenario)
	require.NotNil(t, other)
	assert.Zero(t, other.FixedPayroll, "store without headcount")
	assert.Zero(t, other.TotalRent, "store without rent terms")
	assert.Zero(t, other.Contribution, "missing margin reads as zero")
	assert.InDelta(t, 300_000, other.NetworkCost, 1e-6)
}

func TestBuildDecemberFactor(t *testing.T) {
	in := testutil.SingleStoreInputs()
	dec := datetime.Month(2024, time.December)
	in.Rent[0].DecemberFactor = 1.5
	in.Sales = append(in.Sales, model.MonthlyFact{
		Store: store, Month: dec, Scenario: constants.RealScenario, Value: 10_000_000,
	})

	rows, err := NewBuilder(nil, DefaultOptions()).Build(in)
	require.NoError(t, err)

	december := testutil.FindRow(rows, store, dec, constants.RealScenario)
	require.NotNil(t, december)
	assert.InDelta(t, 5_550_000, december.FixedRent, 1e-6)

	january := testutil.FindRow(rows, store, jan, constants.RealScenario)
	require.NotNil(t, january)
	assert.InDelta(t, 3_700_000, january.FixedRent, 1e-6)
}

func TestBuildClosedMonthsHaveNoCosts(t *testing.T) {
	in := testutil.SingleStoreInputs()
	in.Network = &model.NetworkCost{MonthlySpend: 1_000_000, RetailShare: 1}
	in.OtherCosts = []model.BannerRate{{Banner: "Casa", Rate: 0.02}}
	in.Sales = []model.MonthlyFact{
		{Store: store, Month: jan, Scenario: constants.RealScenario, Value: 0},
		{Store: store, Month: feb, Scenario: constants.RealScenario, Value: -5_000},
	}

	rows, err := NewBuilder(nil, DefaultOptions()).Build(in)
	require.NoError(t, err)

	for _, month := range []time.Time{jan, feb} {
		r := testutil.FindRow(rows, store, month, constants.RealScenario)
		require.NotNil(t, r)
		for _, def := range model.MetricDefs {
			switch def.ID {
			case "Venta", "Margen_contribucion":
				continue
			}
			assert.Equal(t, 0.0, def.Value(r.Metrics), "%s in %s", def.ID, month.Format("2006-01"))
		}
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("Missing table", func(t *testing.T) {
		in := testutil.SingleStoreInputs()
		in.Contribution = nil
		_, err := NewBuilder(nil, DefaultOptions()).Build(in)
		var missing *model.MissingColumnError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, model.TableContribution, missing.Table)
	})

	t.Run("No currency data", func(t *testing.T) {
		in := testutil.SingleStoreInputs()
		in.CurrencyIndex = []model.IndexPoint{}
		_, err := NewBuilder(nil, DefaultOptions()).Build(in)
		var missing *model.MissingCurrencyDataError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, jan, missing.Month)
	})
}

func TestFillMissingMonths(t *testing.T) {
	apr := datetime.Month(2025, time.April)
	rows := []model.EERRRow{
		{Store: "A", Banner: "Casa", Month: feb, Scenario: constants.RealScenario},
		{Store: "A", Banner: "Casa", Month: apr, Scenario: constants.RealScenario},
		{Store: "A", Banner: "Casa", Month: datetime.Month(2025, time.December), Scenario: constants.BudgetScenario, IsBudget: true},
	}

	filled := FillMissingMonths(rows, constants.BudgetScenario)

	type key struct {
		scenario string
		month    time.Time
	}
	seen := make(map[key]bool)
	for _, r := range filled {
		k := key{r.Scenario, r.Month}
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
		assert.Equal(t, "Casa", r.Banner)
		assert.Equal(t, r.Scenario == constants.BudgetScenario, r.IsBudget)
	}

	// Real: Feb..Dec, budget: only December.
	assert.Len(t, filled, 12)
	assert.False(t, seen[key{constants.RealScenario, jan}], "months before the first are not filled")
	assert.True(t, seen[key{constants.RealScenario, datetime.Month(2025, time.March)}])
	assert.True(t, seen[key{constants.RealScenario, datetime.Month(2025, time.December)}])

	again := FillMissingMonths(filled, constants.BudgetScenario)
	assert.Len(t, again, len(filled), "filling a complete table adds nothing")
}

func TestFillMissingMonthsPerYear(t *testing.T) {
	rows := []model.EERRRow{
		{Store: "A", Month: datetime.Month(2024, time.November), Scenario: constants.RealScenario},
		{Store: "A", Month: datetime.Month(2025, time.October), Scenario: constants.RealScenario},
	}
	filled := FillMissingMonths(rows, constants.BudgetScenario)
	// 2024: December; 2025: November and December.
	assert.Len(t, filled, 5)
}

func TestReconcile(t *testing.T) {
	data := model.Metrics{Sales: 1}
	empty := model.EmptyMetrics()
	mar := datetime.Month(2025, time.March)
	rows := []model.EERRRow{
		{Store: "A", Month: jan, Scenario: constants.RealScenario, Metrics: empty},
		{Store: "A", Month: jan, Scenario: constants.BudgetScenario, IsBudget: true, Metrics: data},
		{Store: "A", Month: feb, Scenario: constants.RealScenario, Metrics: data},
		{Store: "A", Month: feb, Scenario: constants.BudgetScenario, IsBudget: true, Metrics: empty},
		{Store: "A", Month: mar, Scenario: constants.RealScenario, Metrics: empty},
		{Store: "A", Month: mar, Scenario: constants.BudgetScenario, IsBudget: true, Metrics: empty},
		{Store: "B", Month: jan, Scenario: constants.RealScenario, Metrics: data},
		{Store: "B", Month: jan, Scenario: constants.BudgetScenario, IsBudget: true, Metrics: data},
	}

	got := Reconcile(rows, constants.RealScenario)

	require.Len(t, got, 5)
	assert.Nil(t, testutil.FindRow(got, "A", jan, constants.RealScenario), "real placeholder must not hide budget data")
	assert.NotNil(t, testutil.FindRow(got, "A", jan, constants.BudgetScenario))
	assert.Nil(t, testutil.FindRow(got, "A", feb, constants.BudgetScenario))
	assert.NotNil(t, testutil.FindRow(got, "A", mar, constants.RealScenario))
	assert.Nil(t, testutil.FindRow(got, "A", mar, constants.BudgetScenario))
	assert.NotNil(t, testutil.FindRow(got, "B", jan, constants.RealScenario))
	assert.NotNil(t, testutil.FindRow(got, "B", jan, constants.BudgetScenario))
}

func TestSort(t *testing.T) {
	rows := []model.EERRRow{
		{Store: "B", Month: jan, Scenario: constants.RealScenario},
		{Store: "A", Month: feb, Scenario: constants.RealScenario},
		{Store: "A", Month: jan, Scenario: constants.BudgetScenario},
		{Store: "A", Month: jan, Scenario: constants.RealScenario},
	}
	Sort(rows, constants.RealScenario)

	assert.Equal(t, "A", rows[0].Store)
	assert.Equal(t, constants.RealScenario, rows[0].Scenario)
	assert.Equal(t, constants.BudgetScenario, rows[1].Scenario)
	assert.Equal(t, feb, rows[2].Month)
	assert.Equal(t, "B", rows[3].Store)
}

func TestPivot(t *testing.T) {
	rows, err := NewBuilder(nil, DefaultOptions()).Build(testutil.SingleStoreInputs())
	require.NoError(t, err)

	tables := Pivot(rows)
	require.Len(t, tables, 1)
	table := tables[0]
	assert.Equal(t, store, table.Store)
	require.Len(t, table.Months, 12)
	assert.Equal(t, jan, table.Months[0])
	assert.Equal(t, constants.RealScenario, table.Scenarios[0])

	sales, ok := table.Value("Venta", 0)
	require.True(t, ok)
	assert.InDelta(t, 10_000_000, sales, 1e-6)

	ebitda, ok := table.Value("EBITDA", 1)
	require.True(t, ok)
	assert.True(t, math.IsNaN(ebitda), "February is a placeholder")

	_, ok = table.Value("unknown", 0)
	assert.False(t, ok)
}

func TestBuildMissingRealSalesShowsBudget(t *testing.T) {
	in := testutil.SingleStoreInputs()
	in.Sales[0].Value = math.NaN()

	rows, err := NewBuilder(nil, DefaultOptions()).Build(in)
	require.NoError(t, err)

	assert.Nil(t, testutil.FindRow(rows, store, jan, constants.RealScenario), "missing real sales must not hide the budget")
	budget := testutil.FindRow(rows, store, jan, constants.BudgetScenario)
	require.NotNil(t, budget)
	assert.InDelta(t, 9_000_000, budget.Sales, 1e-6)
	// January budget plus eleven real placeholders.
	assert.Len(t, rows, 12)

	tables := Pivot(rows)
	require.Len(t, tables, 1)
	assert.Equal(t, constants.BudgetScenario, tables[0].Scenarios[0])
	sales, ok := tables[0].Value("Venta", 0)
	require.True(t, ok)
	assert.InDelta(t, 9_000_000, sales, 1e-6)
}

func TestComputeMissingSalesIsPlaceholder(t *testing.T) {
	m := compute(math.NaN(), jan, costInputs{margin: 0.3, staffing: model.StaffingProfile{FixedCost: 500_000}})
	assert.True(t, m.AllMissing())
}

func TestNewBuilderDefaultsWindowPerField(t *testing.T) {
	opts := DefaultOptions()
	opts.Window.EndDay = 0
	b := NewBuilder(nil, opts)
	assert.Equal(t, constants.DefaultWindowStartDay, b.opts.Window.StartDay)
	assert.Equal(t, constants.DefaultWindowEndDay, b.opts.Window.EndDay)
}
