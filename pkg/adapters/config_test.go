package adapters

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/store-eerr/internal/dataset"
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
)

const snapshot = `
schema: 2
stores:
  - {store: 1001-Centro, banner: Casa}
sales:
  - {store: 1001-Centro, month: 2025-01, scenario: Real, value: 10000000}
  - {store: 1001-Centro, month: 2025-01, scenario: Presupuesto, value: 9000000}
  - {store: 1001-Centro, month: 2025-02, scenario: Presupuesto, value: 9500000}
  - {store: 1001-Centro, month: 2025-03, scenario: Real}
  - {store: 1001-Centro, month: 2025-03, scenario: Presupuesto, value: 9700000}
contribution:
  - {store: 1001-Centro, month: 2025-01, scenario: Real, value: 0.30}
headcount:
  - store: 1001-Centro
    roles:
      - {role: Jefe, count: 1}
roleCosts:
  - {role: Jefe, fixed: [900000, 100000], commission: 0.004}
rent:
  - {store: 1001-Centro, vmmUF: 100, percentage: 0.05, ggcc: 250000}
otherCosts: []
paymentCommission:
  - {banner: Casa, rate: 0.015}
network: {monthlySpend: 1000000, retailShare: 0.6}
uf:
  - {date: 2024-12-15, value: 37000}
`

func decode(t *testing.T, doc string) *dataset.Snapshot {
	t.Helper()
	snap, err := dataset.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return snap
}

func TestSnapshotToInputs(t *testing.T) {
	in, err := SnapshotToInputs(decode(t, snapshot), DefaultOptions())
	if err != nil {
		t.Fatalf("SnapshotToInputs() error = %v", err)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("converted inputs should validate: %v", err)
	}

	if in.Schema != model.SchemaV2 {
		t.Errorf("Expected schema v2, got %d", in.Schema)
	}
	if got := in.RoleCosts[0].Fixed; got != 1_000_000 {
		t.Errorf("Expected summed fixed cost 1000000, got %v", got)
	}
	if in.Headcount[0].Roles[0].Role != model.RoleManager {
		t.Errorf("unexpected role %q", in.Headcount[0].Roles[0].Role)
	}
	if in.Rent[0].Factor() != 1 {
		t.Errorf("Expected absent December factor to read as 1, got %v", in.Rent[0].Factor())
	}
	if in.OtherCosts == nil || len(in.OtherCosts) != 0 {
		t.Errorf("Expected an empty, present other-costs table")
	}
	if !in.HasPaymentCommission() || in.PaymentCommission[0].Rate != 0.015 {
		t.Errorf("unexpected payment commission %+v", in.PaymentCommission)
	}
	if in.Network.Retail() != 600_000 {
		t.Errorf("Expected retail network spend 600000, got %v", in.Network.Retail())
	}
	if want := datetime.Day(2024, time.December, 15); !in.CurrencyIndex[0].Date.Equal(want) {
		t.Errorf("Expected index date %v, got %v", want, in.CurrencyIndex[0].Date)
	}

	// January budget is dropped for the real figure; February budget has no
	// real counterpart; March real has no value so its budget stays.
	if len(in.Sales) != 4 {
		t.Fatalf("Expected 4 sales facts after real precedence, got %d: %+v", len(in.Sales), in.Sales)
	}
	for _, f := range in.Sales {
		if f.Scenario == constants.BudgetScenario && f.Month.Month() == time.January {
			t.Errorf("January budget should have been dropped")
		}
	}
	if !math.IsNaN(in.Sales[2].Value) {
		t.Errorf("Expected NaN for a fact without value, got %v", in.Sales[2].Value)
	}
}

func TestSnapshotToInputsKeepsBudget(t *testing.T) {
	opts := DefaultOptions()
	opts.PreferReal = false
	in, err := SnapshotToInputs(decode(t, snapshot), opts)
	if err != nil {
		t.Fatalf("SnapshotToInputs() error = %v", err)
	}
	if len(in.Sales) != 5 {
		t.Errorf("Expected all 5 sales facts, got %d", len(in.Sales))
	}
}

func TestSnapshotToInputsAbsentTables(t *testing.T) {
	in, err := SnapshotToInputs(decode(t, "stores: []\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("SnapshotToInputs() error = %v", err)
	}
	if in.Schema != model.SchemaV1 {
		t.Errorf("Expected schema v1 by default, got %d", in.Schema)
	}
	if in.Sales != nil || in.Rent != nil || in.CurrencyIndex != nil || in.Network != nil {
		t.Error("Expected absent tables to stay nil")
	}

	err = in.Validate()
	var missing *model.MissingColumnError
	if !errors.As(err, &missing) || missing.Table != model.TableSales {
		t.Errorf("Expected missing sales table, got %v", err)
	}
}

func TestSnapshotToInputsErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		errPart string
	}{
		{
			name:    "Bad month",
			doc:     "sales:\n  - {store: A, month: 2025/01, scenario: Real, value: 1}\n",
			errPart: "invalid sales month",
		},
		{
			name:    "Bad index date",
			doc:     "uf:\n  - {date: 15-12-2024, value: 1}\n",
			errPart: "invalid currency index date",
		},
		{
			name: "Duplicate fact",
			doc: "contribution:\n" +
				"  - {store: A, month: 2025-01, scenario: Real, value: 0.3}\n" +
				"  - {store: A, month: 2025-01, scenario: Real, value: 0.2}\n",
			errPart: "contribution has more than one value for A 2025-01 Real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SnapshotToInputs(decode(t, tt.doc), DefaultOptions())
			if err == nil {
				t.Fatal("SnapshotToInputs() expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should contain %q", err, tt.errPart)
			}
		})
	}
}

func TestPreferReal(t *testing.T) {
	jan := datetime.Month(2025, time.January)
	facts := []model.MonthlyFact{
		{Store: "A", Month: jan, Scenario: constants.BudgetScenario, Value: 2},
		{Store: "A", Month: jan, Scenario: constants.RealScenario, Value: 1},
		{Store: "B", Month: jan, Scenario: constants.BudgetScenario, Value: 3},
	}

	got := PreferReal(facts, constants.RealScenario, constants.BudgetScenario)
	if len(got) != 2 || got[0].Scenario != constants.RealScenario || got[1].Store != "B" {
		t.Errorf("unexpected result %+v", got)
	}
	if PreferReal(nil, constants.RealScenario, constants.BudgetScenario) != nil {
		t.Error("Expected nil for a nil table")
	}
}
