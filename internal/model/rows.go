package model

import (
	"math"
	"time"
)

// Metrics is the monthly P&L of one store. Money is in pesos; fields
// ending in Pct are percentages (0-100). Gap-filled months carry NaN in
// every field.
type Metrics struct {
	Sales                 float64
	CostOfSales           float64
	Contribution          float64
	ContributionMarginPct float64
	FixedRent             float64
	VariableRent          float64
	PromotionFundRent     float64
	GGCC                  float64
	TotalRent             float64
	FixedPayroll          float64
	Commissions           float64
	StaffingCost          float64
	NetworkCost           float64
	PaymentCommission     float64
	OtherCosts            float64
	OperatingExpense      float64
	EBITDA                float64
	EBITDAMarginPct       float64
}

// MetricKind tells renderers how to format a metric.
type MetricKind int

const (
	// KindCurrency is an amount in pesos.
	KindCurrency MetricKind = iota
	// KindPercent is a percentage.
	KindPercent
)

// MetricDef describes one column of the EERR.
type MetricDef struct {
	ID    string
	Label string
	Kind  MetricKind
	Value func(Metrics) float64
}

// MetricDefs lists the EERR metrics in report order.
var MetricDefs = []MetricDef{
	{"Venta", "Venta", KindCurrency, func(m Metrics) float64 { return m.Sales }},
	{"Costo_de_venta", "Costo de venta", KindCurrency, func(m Metrics) float64 { return m.CostOfSales }},
	{"Contribucion", "Contribución", KindCurrency, func(m Metrics) float64 { return m.Contribution }},
	{"Margen_contribucion", "Margen contribución (%)", KindPercent, func(m Metrics) float64 { return m.ContributionMarginPct }},
	{"Arriendo_fijo", "Arriendo fijo", KindCurrency, func(m Metrics) float64 { return m.FixedRent }},
	{"Arriendo_variable", "Arriendo variable", KindCurrency, func(m Metrics) float64 { return m.VariableRent }},
	{"Arriendo_fondo_promocion", "Arriendo fondo promoción", KindCurrency, func(m Metrics) float64 { return m.PromotionFundRent }},
	{"Arriendo_GGCC", "Arriendo GGCC", KindCurrency, func(m Metrics) float64 { return m.GGCC }},
	{"Arriendo_total", "Arriendo total", KindCurrency, func(m Metrics) float64 { return m.TotalRent }},
	{"Remuneraciones_fijo", "Remuneraciones fijo", KindCurrency, func(m Metrics) float64 { return m.FixedPayroll }},
	{"Remuneraciones_comisiones", "Remuneraciones comisiones", KindCurrency, func(m Metrics) float64 { return m.Commissions }},
	{"Remuneraciones_total", "Remuneraciones total", KindCurrency, func(m Metrics) float64 { return m.StaffingCost }},
	{"Redes_sistemas", "Redes y sistemas", KindCurrency, func(m Metrics) float64 { return m.NetworkCost }},
	{"Comision_medio_pago", "Comisión medio de pago", KindCurrency, func(m Metrics) float64 { return m.PaymentCommission }},
	{"Otros_costos", "Otros costos", KindCurrency, func(m Metrics) float64 { return m.OtherCosts }},
	{"Gastos_operacionales", "Gastos operacionales", KindCurrency, func(m Metrics) float64 { return m.OperatingExpense }},
	{"EBITDA", "EBITDA", KindCurrency, func(m Metrics) float64 { return m.EBITDA }},
	{"Margen_EBITDA", "Margen EBITDA (%)", KindPercent, func(m Metrics) float64 { return m.EBITDAMarginPct }},
}

// EmptyMetrics returns a Metrics value with every field set to NaN.
func EmptyMetrics() Metrics {
	nan := math.NaN()
	return Metrics{
		Sales: nan, CostOfSales: nan, Contribution: nan, ContributionMarginPct: nan,
		FixedRent: nan, VariableRent: nan, PromotionFundRent: nan, GGCC: nan, TotalRent: nan,
		FixedPayroll: nan, Commissions: nan, StaffingCost: nan,
		NetworkCost: nan, PaymentCommission: nan, OtherCosts: nan,
		OperatingExpense: nan, EBITDA: nan, EBITDAMarginPct: nan,
	}
}

// AllMissing reports whether every metric is NaN.
func (m Metrics) AllMissing() bool {
	for _, def := range MetricDefs {
		if !math.IsNaN(def.Value(m)) {
			return false
		}
	}
	return true
}

// EERRRow is one (store, month, scenario) line of the monthly P&L.
type EERRRow struct {
	Store    string
	Banner   string
	Month    time.Time
	Scenario string
	IsBudget bool
	Metrics
}

// BreakEvenRow is the sales needed to reach EBITDA = 0 at one contribution
// margin. RequiredSales is NaN when no rent regime yields a solution.
type BreakEvenRow struct {
	Store         string
	MarginPct     float64
	RequiredSales float64
}

// Solved reports whether the row holds a required-sales value.
func (r BreakEvenRow) Solved() bool {
	return !math.IsNaN(r.RequiredSales)
}
