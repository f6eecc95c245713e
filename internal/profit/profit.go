// Package profit estimates the resale margin of a unit in each export market.
package profit

import (
	"github.com/shopspring/decimal"
)

// Market is an export destination with its freight cost and typical resale
// markup.
type Market struct {
	Region              string  `json:"region"`
	Currency            string  `json:"currency"`
	ShippingCostUSD     float64 `json:"shipping_cost_usd"`
	AvgResaleMultiplier float64 `json:"avg_resale_multiplier"`
}

// Markets lists the destinations offered by the simulator. The first entry
// is the default.
var Markets = []Market{
	{Region: "USA (Domestic)", Currency: "USD", ShippingCostUSD: 0, AvgResaleMultiplier: 1.15},
	{Region: "UAE (Dubai)", Currency: "AED", ShippingCostUSD: 25, AvgResaleMultiplier: 1.3},
	{Region: "Hong Kong", Currency: "HKD", ShippingCostUSD: 20, AvgResaleMultiplier: 1.25},
	{Region: "Nigeria (Lagos)", Currency: "NGN", ShippingCostUSD: 45, AvgResaleMultiplier: 1.6},
	{Region: "Kenya (Nairobi)", Currency: "KES", ShippingCostUSD: 40, AvgResaleMultiplier: 1.5},
	{Region: "India", Currency: "INR", ShippingCostUSD: 35, AvgResaleMultiplier: 1.4},
}

// Estimate is the per-unit outcome of reselling in one market. Money values
// are whole or fractional USD; MarginPct is the rounded return on delivered
// cost.
type Estimate struct {
	Market          Market          `json:"market"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	DeliveredCost   decimal.Decimal `json:"delivered_cost"`
	EstimatedResale decimal.Decimal `json:"estimated_resale"`
	Profit          decimal.Decimal `json:"profit"`
	MarginPct       int64           `json:"margin_pct"`
}

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

// roundHalfUp rounds to the nearest integer with halves going up, so -2.5
// becomes -2.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// Simulate prices one unit bought at price and resold in m. Delivered cost is
// price plus shipping, resale is price times the market multiplier rounded to
// a whole dollar, and the margin is profit over delivered cost.
func Simulate(price float64, m Market) Estimate {
	unit := decimal.NewFromFloat(price)
	delivered := unit.Add(decimal.NewFromFloat(m.ShippingCostUSD))
	resale := roundHalfUp(unit.Mul(decimal.NewFromFloat(m.AvgResaleMultiplier)))
	profit := resale.Sub(delivered)
	var margin int64
	if !delivered.IsZero() {
		margin = roundHalfUp(profit.Div(delivered).Mul(hundred)).IntPart()
	}
	return Estimate{
		Market:          m,
		UnitCost:        unit,
		DeliveredCost:   delivered,
		EstimatedResale: resale,
		Profit:          profit,
		MarginPct:       margin,
	}
}

// SimulateAll runs Simulate for every market in Markets order.
func SimulateAll(price float64) []Estimate {
	out := make([]Estimate, 0, len(Markets))
	for _, m := range Markets {
		out = append(out, Simulate(price, m))
	}
	return out
}
