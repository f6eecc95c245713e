package variation

import "github.com/fairyhunter13/cryzo-storefront/internal/model"

// Attribute names a variation dimension.
type Attribute string

const (
	AttrStorage Attribute = "storage"
	AttrGrade   Attribute = "grade"
	AttrColor   Attribute = "color"
	AttrOrigin  Attribute = "origin"
)

func (a Attribute) of(v model.Variation) string {
	switch a {
	case AttrStorage:
		return v.Storage
	case AttrGrade:
		return v.Grade
	case AttrColor:
		return v.Color
	case AttrOrigin:
		return v.Origin
	}
	return ""
}

// Options lists the distinct attribute values offered by a product's
// variations, in first-seen order. Stock holds the units available per
// value, keyed by attribute then value.
type Options struct {
	Storages []string                       `json:"storages"`
	Grades   []string                       `json:"grades"`
	Colors   []string                       `json:"colors"`
	Origins  []string                       `json:"origins"`
	Stock    map[Attribute]map[string]int64 `json:"stock"`
}

// OptionsOf collects the selectable values of p and their stock. Empty values
// are skipped.
func OptionsOf(p model.Product) Options {
	o := Options{
		Storages: distinct(p.Variations, AttrStorage),
		Grades:   distinct(p.Variations, AttrGrade),
		Colors:   distinct(p.Variations, AttrColor),
		Origins:  distinct(p.Variations, AttrOrigin),
		Stock:    make(map[Attribute]map[string]int64, 4),
	}
	for a, values := range map[Attribute][]string{
		AttrStorage: o.Storages,
		AttrGrade:   o.Grades,
		AttrColor:   o.Colors,
		AttrOrigin:  o.Origins,
	} {
		counts := make(map[string]int64, len(values))
		for _, v := range values {
			counts[v] = StockFor(p, a, v)
		}
		o.Stock[a] = counts
	}
	return o
}

func distinct(vs []model.Variation, a Attribute) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		val := a.of(v)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

// StockFor sums the stock of every variation whose attribute a equals value.
func StockFor(p model.Product, a Attribute, value string) int64 {
	var total int64
	for _, v := range p.Variations {
		if a.of(v) == value {
			total += v.Stock
		}
	}
	return total
}
