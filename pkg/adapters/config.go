// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/store-eerr/internal/dataset"
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"github.com/iwvelando/store-eerr/pkg/datetime"
)

// Options controls the snapshot conversion.
type Options struct {
	// PreferReal drops budget facts whose (store, month) also has a real fact.
	PreferReal     bool
	RealScenario   string
	BudgetScenario string
}

// DefaultOptions keeps real figures over budget ones.
func DefaultOptions() Options {
	return Options{
		PreferReal:     true,
		RealScenario:   constants.RealScenario,
		BudgetScenario: constants.BudgetScenario,
	}
}

// DuplicateFactError reports two values for one (store, month, scenario).
type DuplicateFactError struct {
	Table    string
	Store    string
	Month    time.Time
	Scenario string
}

func (e *DuplicateFactError) Error() string {
	return fmt.Sprintf("%s has more than one value for %s %s %s",
		e.Table, e.Store, e.Month.Format(constants.DateTimeLayout), e.Scenario)
}

// SnapshotToInputs converts a decoded snapshot into engine inputs. Tables
// absent from the snapshot stay nil. A schema of 0 is read as version 1.
func SnapshotToInputs(snap *dataset.Snapshot, opts Options) (*model.Inputs, error) {
	in := &model.Inputs{Schema: model.SchemaVersion(snap.Schema)}
	if in.Schema == 0 {
		in.Schema = model.SchemaV1
	}

	if snap.Stores != nil {
		in.Stores = make([]model.Store, 0, len(snap.Stores))
		for _, s := range snap.Stores {
			in.Stores = append(in.Stores, model.Store{Name: s.Store, Banner: s.Banner})
		}
	}

	var err error
	if in.Sales, err = facts(model.TableSales, snap.Sales); err != nil {
		return nil, err
	}
	if in.Contribution, err = facts(model.TableContribution, snap.Contribution); err != nil {
		return nil, err
	}
	if opts.PreferReal {
		in.Sales = PreferReal(in.Sales, opts.RealScenario, opts.BudgetScenario)
		in.Contribution = PreferReal(in.Contribution, opts.RealScenario, opts.BudgetScenario)
	}

	if snap.Headcount != nil {
		in.Headcount = make([]model.Headcount, 0, len(snap.Headcount))
		for _, h := range snap.Headcount {
			plan := model.Headcount{Store: h.Store}
			for _, r := range h.Roles {
				plan.Roles = append(plan.Roles, model.RoleCount{Role: model.Role(r.Role), Count: r.Count})
			}
			in.Headcount = append(in.Headcount, plan)
		}
	}

	if snap.RoleCosts != nil {
		in.RoleCosts = make([]model.RoleCost, 0, len(snap.RoleCosts))
		for _, c := range snap.RoleCosts {
			fixed := 0.0
			for _, component := range c.Fixed {
				fixed += component
			}
			in.RoleCosts = append(in.RoleCosts, model.RoleCost{Role: model.Role(c.Role), Fixed: fixed, Commission: c.Commission})
		}
	}

	if snap.Rent != nil {
		in.Rent = make([]model.RentTerms, 0, len(snap.Rent))
		for _, r := range snap.Rent {
			terms := model.RentTerms{
				Store:          r.Store,
				VMMUF:          r.VMMUF,
				PercentageRate: r.Percentage,
				PromotionPct:   r.PromotionPct,
				GGCC:           r.GGCC,
			}
			if r.DecemberFactor != nil {
				terms.DecemberFactor = *r.DecemberFactor
			}
			in.Rent = append(in.Rent, terms)
		}
	}

	in.OtherCosts = bannerRates(snap.OtherCosts)
	in.PaymentCommission = bannerRates(snap.PaymentCommission)
	if snap.Network != nil {
		in.Network = &model.NetworkCost{MonthlySpend: snap.Network.MonthlySpend, RetailShare: snap.Network.RetailShare}
	}

	if snap.UF != nil {
		in.CurrencyIndex = make([]model.IndexPoint, 0, len(snap.UF))
		for _, p := range snap.UF {
			day, err := datetime.ParseDay(p.Date)
			if err != nil {
				return nil, fmt.Errorf("invalid currency index date %q: %w", p.Date, err)
			}
			in.CurrencyIndex = append(in.CurrencyIndex, model.IndexPoint{Date: day, Value: p.Value})
		}
	}

	return in, nil
}

func facts(table string, records []dataset.FactRecord) ([]model.MonthlyFact, error) {
	if records == nil {
		return nil, nil
	}

	type key struct {
		store    string
		month    time.Time
		scenario string
	}
	seen := make(map[key]bool, len(records))
	out := make([]model.MonthlyFact, 0, len(records))
	for _, r := range records {
		month, err := datetime.ParseMonth(r.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid %s month %q for %s: %w", table, r.Month, r.Store, err)
		}
		k := key{r.Store, month, r.Scenario}
		if seen[k] {
			return nil, &DuplicateFactError{Table: table, Store: r.Store, Month: month, Scenario: r.Scenario}
		}
		seen[k] = true

		value := math.NaN()
		if r.Value != nil {
			value = *r.Value
		}
		out = append(out, model.MonthlyFact{Store: r.Store, Month: month, Scenario: r.Scenario, Value: value})
	}
	return out, nil
}

func bannerRates(records []dataset.BannerRateRecord) []model.BannerRate {
	if records == nil {
		return nil
	}
	out := make([]model.BannerRate, 0, len(records))
	for _, r := range records {
		out = append(out, model.BannerRate{Banner: r.Banner, Rate: r.Rate})
	}
	return out
}

// PreferReal removes budget facts whose (store, month) also has a real
// fact with a value. Order is otherwise preserved.
func PreferReal(in []model.MonthlyFact, realScenario, budgetScenario string) []model.MonthlyFact {
	if in == nil {
		return nil
	}

	type key struct {
		store string
		month time.Time
	}
	hasReal := make(map[key]bool)
	for _, f := range in {
		if f.Scenario == realScenario && !math.IsNaN(f.Value) {
			hasReal[key{f.Store, f.Month}] = true
		}
	}

	out := make([]model.MonthlyFact, 0, len(in))
	for _, f := range in {
		if f.Scenario == budgetScenario && hasReal[key{f.Store, f.Month}] {
			continue
		}
		out = append(out, f)
	}
	return out
}
