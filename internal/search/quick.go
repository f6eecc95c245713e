package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// Filters is the structured quick-search query. Zero values are ignored.
type Filters struct {
	Brand    string  `json:"brand,omitempty"`
	Model    string  `json:"model,omitempty"`
	Grade    string  `json:"grade,omitempty"`
	Storage  string  `json:"storage,omitempty"`
	Origin   string  `json:"origin,omitempty"`
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f == Filters{}
}

// Values encodes f as query parameters.
func (f Filters) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("brand", f.Brand)
	set("model", f.Model)
	set("grade", f.Grade)
	set("storage", f.Storage)
	set("origin", f.Origin)
	if f.MinPrice > 0 {
		v.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	return v
}

// FiltersFromValues parses query parameters. Unparseable prices are ignored.
func FiltersFromValues(v url.Values) Filters {
	f := Filters{
		Brand:   v.Get("brand"),
		Model:   v.Get("model"),
		Grade:   v.Get("grade"),
		Storage: v.Get("storage"),
		Origin:  v.Get("origin"),
	}
	if p, err := strconv.ParseFloat(v.Get("minPrice"), 64); err == nil {
		f.MinPrice = p
	}
	if p, err := strconv.ParseFloat(v.Get("maxPrice"), 64); err == nil {
		f.MaxPrice = p
	}
	return f
}

// Quick applies f locally: attributes match case-insensitively (model by
// substring) and the price bounds are inclusive.
func Quick(products []model.Product, f Filters) []model.Product {
	if f.Empty() {
		return products
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		if f.Model != "" && !strings.Contains(strings.ToLower(p.Model), strings.ToLower(f.Model)) {
			continue
		}
		if f.Grade != "" && !strings.EqualFold(p.Grade, f.Grade) {
			continue
		}
		if f.Storage != "" && !strings.EqualFold(p.Storage, f.Storage) {
			continue
		}
		if f.Origin != "" && !strings.EqualFold(p.Origin, f.Origin) {
			continue
		}
		if f.MinPrice > 0 && p.PriceUSD < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.PriceUSD > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}
