package cart

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// Wholesale order gates.
var (
	MinUnits          = 10
	MinValue          = decimal.NewFromInt(2500)
	WireTransferAbove = decimal.NewFromInt(5000)
)

// Summary is the order summary shown beside the cart.
type Summary struct {
	Lines                int             `json:"lines"`
	Units                int             `json:"units"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Total                decimal.Decimal `json:"total"`
	MinUnits             int             `json:"min_units"`
	MinValue             decimal.Decimal `json:"min_value"`
	MeetsMOQ             bool            `json:"meets_moq"`
	MeetsMinValue        bool            `json:"meets_min_value"`
	WireTransferRequired bool            `json:"wire_transfer_required"`
	CanCheckout          bool            `json:"can_checkout"`
}

// LineTotal is price times quantity.
func LineTotal(it model.CartItem) decimal.Decimal {
	return decimal.NewFromFloat(it.PriceUSD).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Summarize computes totals and checkout gates. Orders above the wire
// transfer ceiling cannot be paid by card.
func Summarize(items []model.CartItem) Summary {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(LineTotal(it))
	}
	s := Summary{
		Lines:    len(items),
		Units:    Units(items),
		Subtotal: sub,
		Total:    sub,
		MinUnits: MinUnits,
		MinValue: MinValue,
	}
	s.MeetsMOQ = s.Units >= MinUnits
	s.MeetsMinValue = sub.GreaterThanOrEqual(MinValue)
	s.WireTransferRequired = sub.GreaterThan(WireTransferAbove)
	s.CanCheckout = s.Lines > 0 && s.MeetsMOQ && s.MeetsMinValue && !s.WireTransferRequired
	return s
}

// CheckoutLine is the line shape sent to the checkout session endpoint.
type CheckoutLine struct {
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	Grade    string  `json:"grade"`
	Storage  string  `json:"storage"`
	Origin   string  `json:"origin"`
	PriceUSD float64 `json:"priceUsd"`
	Quantity int     `json:"quantity"`
}

// CheckoutLines converts cart lines for checkout.
func CheckoutLines(items []model.CartItem) []CheckoutLine {
	out := make([]CheckoutLine, 0, len(items))
	for _, it := range items {
		out = append(out, CheckoutLine{
			Brand:    it.Brand,
			Model:    it.Model,
			Grade:    it.Grade,
			Storage:  it.Storage,
			Origin:   it.Origin,
			PriceUSD: it.PriceUSD,
			Quantity: it.Quantity,
		})
	}
	return out
}
