// Package model defines the value tables exchanged between the data
// collaborators and the EERR engine.
package model

import (
	"time"
)

// Role is a staffing position in a store.
type Role string

// Default role catalog, in display order.
const (
	RoleManager     Role = "Jefe"
	RoleSubManager  Role = "Sub jefe"
	RoleCashierFT   Role = "Cajera FT"
	RoleCashierPT20 Role = "Cajeras PT20"
	RoleWarehouse   Role = "Bodeguero"
	RoleFullTime    Role = "Fulltime"
	RolePartTime30  Role = "Part Time 30"
	RolePartTime20  Role = "Part Time 20"
	RoleHost        Role = "Anfitrión"
	RoleVisual      Role = "Visual"
)

// DefaultRoles is the role catalog used when configuration does not name one.
var DefaultRoles = []Role{
	RoleManager, RoleSubManager, RoleCashierFT, RoleCashierPT20, RoleWarehouse,
	RoleFullTime, RolePartTime30, RolePartTime20, RoleHost, RoleVisual,
}

// Store identifies a retail store and its banner.
type Store struct {
	Name   string
	Banner string
}

// MonthlyFact is one (store, month, scenario) value of the sales or
// contribution tables. Month is always the first day of the month in UTC.
type MonthlyFact struct {
	Store    string
	Month    time.Time
	Scenario string
	Value    float64
}

// RoleCount is the headcount of one role.
type RoleCount struct {
	Role  Role
	Count float64
}

// Headcount is the staffing plan of a store.
type Headcount struct {
	Store string
	Roles []RoleCount
}

// RoleCost holds the monthly cost profile of a role. Fixed is the sum of
// all fixed pay components; Commission is either a fraction of sales, a
// per-hundred-million rate, or an absolute monthly amount (> 1).
type RoleCost struct {
	Role       Role
	Fixed      float64
	Commission float64
}

// RentTerms are the lease conditions of a store.
type RentTerms struct {
	Store          string
	VMMUF          float64 // minimum rent in currency-index units
	PercentageRate float64
	PromotionPct   float64
	GGCC           float64
	DecemberFactor float64 // 0 means absent and is read as 1
}

// Factor returns the December multiplier, defaulting to 1 when absent.
func (r RentTerms) Factor() float64 {
	if r.DecemberFactor <= 0 {
		return 1
	}
	return r.DecemberFactor
}

// BannerRate is a banner-level rate applied to sales.
type BannerRate struct {
	Banner string
	Rate   float64
}

// NetworkCost is the shared network and systems spend split across stores.
type NetworkCost struct {
	MonthlySpend float64
	RetailShare  float64
}

// Retail returns the monthly amount charged to the retail network.
func (n *NetworkCost) Retail() float64 {
	if n == nil {
		return 0
	}
	return n.MonthlySpend * n.RetailShare
}

// IndexPoint is one daily quote of the currency index.
type IndexPoint struct {
	Date  time.Time
	Value float64
}

// StaffingProfile is the derived staffing cost structure of a store.
type StaffingProfile struct {
	Store               string
	FixedCost           float64
	CommissionHeadcount float64
	SummedCommission    float64
	SalesCommissionRate float64
	TotalHeadcount      float64
	Detail              []RoleCount
}

// PerSellerRate returns the average per-head commission rate.
func (p StaffingProfile) PerSellerRate() float64 {
	if p.CommissionHeadcount <= 0 {
		return 0
	}
	return p.SummedCommission / p.CommissionHeadcount
}
