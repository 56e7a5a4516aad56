package staff

import (
	"math"
	"testing"

	"github.com/iwvelando/store-eerr/internal/model"
	"go.uber.org/zap"
)

func roleCosts() []model.RoleCost {
	return []model.RoleCost{
		{Role: model.RoleManager, Fixed: 1_200_000, Commission: 0.004},
		{Role: model.RoleSubManager, Fixed: 900_000, Commission: 250_000},
		{Role: model.RoleFullTime, Fixed: 600_000, Commission: 0.01},
		{Role: model.RolePartTime30, Fixed: 400_000, Commission: 0.02},
		{Role: model.RolePartTime20, Fixed: 300_000, Commission: 80_000},
		{Role: model.RoleCashierFT, Fixed: 550_000, Commission: 0.05},
	}
}

func TestProfileClassification(t *testing.T) {
	calc := NewCalculator(zap.NewNop(), DefaultOptions())
	plan := model.Headcount{
		Store: "1001-Centro",
		Roles: []model.RoleCount{
			{Role: model.RoleManager, Count: 1},
			{Role: model.RoleSubManager, Count: 1},
			{Role: model.RoleFullTime, Count: 2},
			{Role: model.RolePartTime30, Count: 1},
			{Role: model.RolePartTime20, Count: 1},
			{Role: model.RoleCashierFT, Count: 2},
		},
	}

	p := calc.Profile(plan, NewRoleCostIndex(roleCosts()))

	expectedFixed := 1_200_000.0 + 900_000 + 2*600_000 + 400_000 + 300_000 + 2*550_000 +
		80_000 // part time 20 absolute commission
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"Fixed cost", p.FixedCost, expectedFixed},
		{"Commission headcount", p.CommissionHeadcount, 3},
		{"Summed commission", p.SummedCommission, 2*0.01 + 0.02},
		{"Sales commission rate", p.SalesCommissionRate, 0.004 + 250_000.0/100_000_000},
		{"Total headcount", p.TotalHeadcount, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.expected) > 1e-9 {
				t.Errorf("%s = %v, expected %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	if len(p.Detail) != 6 {
		t.Errorf("expected 6 roles in detail, got %d", len(p.Detail))
	}
	if math.Abs(p.PerSellerRate()-0.04/3) > 1e-12 {
		t.Errorf("PerSellerRate() = %v", p.PerSellerRate())
	}
}

func TestProfileTotalSalesRoleWithoutCommission(t *testing.T) {
	calc := NewCalculator(nil, DefaultOptions())
	idx := NewRoleCostIndex([]model.RoleCost{{Role: model.RoleManager, Fixed: 1_000_000}})
	p := calc.Profile(model.Headcount{Store: "S", Roles: []model.RoleCount{{Role: model.RoleManager, Count: 1}}}, idx)

	if p.SalesCommissionRate != 0 || p.CommissionHeadcount != 0 {
		t.Errorf("expected no commission, got rate=%v heads=%v", p.SalesCommissionRate, p.CommissionHeadcount)
	}
	if p.FixedCost != 1_000_000 {
		t.Errorf("FixedCost = %v, expected 1000000", p.FixedCost)
	}
}

func TestProfilesMergesAndOrdersStores(t *testing.T) {
	calc := NewCalculator(zap.NewNop(), DefaultOptions())
	headcount := []model.Headcount{
		{Store: "B", Roles: []model.RoleCount{{Role: model.RoleFullTime, Count: 1}}},
		{Store: "A", Roles: []model.RoleCount{{Role: model.RoleVisual, Count: 1}}},
		{Store: "B", Roles: []model.RoleCount{
			{Role: model.RoleFullTime, Count: 1},
			{Role: model.RoleManager, Count: 1},
			{Role: "Gerente regional", Count: 3},
		}},
	}

	profiles := calc.Profiles(headcount, roleCosts())
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Store != "B" || profiles[1].Store != "A" {
		t.Fatalf("unexpected store order: %s, %s", profiles[0].Store, profiles[1].Store)
	}

	b := profiles[0]
	if b.TotalHeadcount != 3 {
		t.Errorf("store B headcount = %v, expected 3 (unknown role ignored)", b.TotalHeadcount)
	}
	if b.Detail[0].Role != model.RoleManager || b.Detail[1].Role != model.RoleFullTime {
		t.Errorf("detail should follow catalog order, got %+v", b.Detail)
	}
	if b.CommissionHeadcount != 2 {
		t.Errorf("store B commission headcount = %v, expected 2", b.CommissionHeadcount)
	}

	a := profiles[1]
	if a.FixedCost != 0 || a.CommissionHeadcount != 0 {
		t.Errorf("store A should have no cost for an unpriced excluded role, got %+v", a)
	}
}
