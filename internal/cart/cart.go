// Package cart aggregates order lines. Every operation is pure: it returns a
// new slice and leaves its input untouched.
package cart

import "github.com/fairyhunter13/cryzo-storefront/internal/model"

// DefaultQuickAddQty is the lot size added by a quick-add action.
const DefaultQuickAddQty = 5

// MaxQuantity caps a single line. Additions and deltas saturate at it, so
// unit counts and totals cannot overflow.
const MaxQuantity = 1_000_000

// AddToCart increments the line for p by qty, or appends a new line.
// A non-positive qty leaves the cart unchanged. Lines saturate at MaxQuantity.
func AddToCart(items []model.CartItem, p model.Product, qty int) []model.CartItem {
	out := clone(items)
	if qty <= 0 {
		return out
	}
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity = saturate(out[i].Quantity, qty)
			return out
		}
	}
	return append(out, model.CartItem{Product: p, Quantity: min(qty, MaxQuantity)})
}

// UpdateQuantity adds delta to the line's quantity, clamps it to
// [0, MaxQuantity] and drops every line left at zero.
func UpdateQuantity(items []model.CartItem, id string, delta int) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID == id {
			it.Quantity = saturate(it.Quantity, delta)
		}
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

// RemoveLine drops the line for id.
func RemoveLine(items []model.CartItem, id string) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Find returns the line for id.
func Find(items []model.CartItem, id string) (model.CartItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return model.CartItem{}, false
}

// Units is the total quantity across all lines.
func Units(items []model.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// saturate returns q+delta clamped to [0, MaxQuantity]. delta is clamped
// first so the sum cannot wrap.
func saturate(q, delta int) int {
	delta = max(-MaxQuantity, min(delta, MaxQuantity))
	q = max(0, min(q, MaxQuantity))
	return max(0, min(q+delta, MaxQuantity))
}

func clone(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items), len(items)+1)
	copy(out, items)
	return out
}
