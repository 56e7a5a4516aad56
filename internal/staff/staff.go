// Package staff converts store headcount plans into payroll cost profiles.
package staff

import (
	"github.com/iwvelando/store-eerr/internal/model"
	"github.com/iwvelando/store-eerr/pkg/constants"
	"go.uber.org/zap"
)

// Options configures role classification.
type Options struct {
	// Roles is the ordered role catalog; headcount for other roles is ignored.
	Roles []model.Role
	// TotalSalesRoles earn a percentage of total store sales.
	TotalSalesRoles []model.Role
	// ExcludedRoles never earn commission.
	ExcludedRoles []model.Role
}

// DefaultOptions returns the standard store role classification.
func DefaultOptions() Options {
	return Options{
		Roles:           append([]model.Role(nil), model.DefaultRoles...),
		TotalSalesRoles: []model.Role{model.RoleManager, model.RoleSubManager},
		ExcludedRoles: []model.Role{
			model.RoleCashierFT, model.RoleCashierPT20, model.RoleWarehouse,
			model.RoleHost, model.RoleVisual,
		},
	}
}

// RoleCostIndex looks up the cost profile of a role.
type RoleCostIndex map[model.Role]model.RoleCost

// NewRoleCostIndex indexes role costs by role; later entries win.
func NewRoleCostIndex(costs []model.RoleCost) RoleCostIndex {
	idx := make(RoleCostIndex, len(costs))
	for _, c := range costs {
		idx[c.Role] = c
	}
	return idx
}

// Calculator computes staffing profiles.
type Calculator struct {
	logger     *zap.Logger
	roles      []model.Role
	catalog    map[model.Role]int
	totalSales map[model.Role]struct{}
	excluded   map[model.Role]struct{}
}

// NewCalculator creates a calculator with the given classification.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewCalculator(logger *zap.Logger, opts Options) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Roles) == 0 {
		opts.Roles = model.DefaultRoles
	}
	c := &Calculator{
		logger:     logger,
		roles:      opts.Roles,
		catalog:    make(map[model.Role]int, len(opts.Roles)),
		totalSales: toSet(opts.TotalSalesRoles),
		excluded:   toSet(opts.ExcludedRoles),
	}
	for i, r := range opts.Roles {
		c.catalog[r] = i
	}
	return c
}

// Profiles returns one staffing profile per store, in order of first
// appearance. Several headcount rows for one store are summed.
func (c *Calculator) Profiles(headcount []model.Headcount, costs []model.RoleCost) []model.StaffingProfile {
	idx := NewRoleCostIndex(costs)

	var order []string
	merged := make(map[string][]float64)
	for _, h := range headcount {
		counts, ok := merged[h.Store]
		if !ok {
			counts = make([]float64, len(c.roles))
			order = append(order, h.Store)
		}
		for _, rc := range h.Roles {
			pos, known := c.catalog[rc.Role]
			if !known {
				c.logger.Debug("ignoring headcount for role outside catalog",
					zap.String("op", "staff.Profiles"),
					zap.String("store", h.Store),
					zap.String("role", string(rc.Role)),
				)
				continue
			}
			counts[pos] += rc.Count
		}
		merged[h.Store] = counts
	}

	profiles := make([]model.StaffingProfile, 0, len(order))
	for _, store := range order {
		counts := merged[store]
		plan := model.Headcount{Store: store}
		for i, n := range counts {
			plan.Roles = append(plan.Roles, model.RoleCount{Role: c.roles[i], Count: n})
		}
		profiles = append(profiles, c.Profile(plan, idx))
	}
	return profiles
}

// Profile computes the cost profile of one headcount plan.
func (c *Calculator) Profile(plan model.Headcount, idx RoleCostIndex) model.StaffingProfile {
	p := model.StaffingProfile{Store: plan.Store}
	for _, rc := range plan.Roles {
		if rc.Count == 0 {
			continue
		}
		p.TotalHeadcount += rc.Count
		p.Detail = append(p.Detail, rc)

		cost := idx[rc.Role]
		p.FixedCost += rc.Count * cost.Fixed
		commission := cost.Commission

		if _, ok := c.totalSales[rc.Role]; ok && commission > 0 {
			p.SalesCommissionRate += rc.Count * normalizeSalesRate(commission)
			continue
		}
		if _, ok := c.excluded[rc.Role]; ok {
			continue
		}
		switch {
		case commission > 1:
			p.FixedCost += rc.Count * commission
		case commission > 0:
			p.CommissionHeadcount += rc.Count
			p.SummedCommission += rc.Count * commission
		}
	}

	c.logger.Debug("staffing profile computed",
		zap.String("op", "staff.Profile"),
		zap.String("store", p.Store),
		zap.Float64("fixedCost", p.FixedCost),
		zap.Float64("commissionHeadcount", p.CommissionHeadcount),
		zap.Float64("salesCommissionRate", p.SalesCommissionRate),
	)
	return p
}

// normalizeSalesRate reads rates above 1 as expressed per hundred million.
func normalizeSalesRate(rate float64) float64 {
	if rate <= 1 {
		return rate
	}
	return rate / constants.PerHundredMillion
}

func toSet(roles []model.Role) map[model.Role]struct{} {
	set := make(map[model.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}
