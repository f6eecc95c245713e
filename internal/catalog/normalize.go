package catalog

import (
	"strings"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// DefaultOrigin is assigned when the remote record carries no origin.
const DefaultOrigin = "US"

// RawVariation is a variation as sent by the remote API.
type RawVariation struct {
	Storage string  `json:"storage"`
	Grade   string  `json:"grade"`
	Color   string  `json:"color"`
	Origin  string  `json:"origin"`
	Price   float64 `json:"price"`
	Stock   int64   `json:"stock"`
}

// RawProduct is the loose product shape returned by the remote API. Several
// fields arrive under alternative names depending on the backend version.
type RawProduct struct {
	MongoID     string         `json:"_id,omitempty"`
	ID          string         `json:"id,omitempty"`
	Brand       string         `json:"brand"`
	Model       string         `json:"model"`
	ModelNumber string         `json:"modelNumber,omitempty"`
	Storage     string         `json:"storage"`
	Grade       string         `json:"grade"`
	Color       string         `json:"color,omitempty"`
	RetailPrice float64        `json:"retailPrice,omitempty"`
	PriceUSD    float64        `json:"priceUsd,omitempty"`
	Quantity    int64          `json:"quantity,omitempty"`
	Stock       int64          `json:"stock,omitempty"`
	PhoneOrigin string         `json:"phoneOrigin,omitempty"`
	Origin      string         `json:"origin,omitempty"`
	InStock     *bool          `json:"inStock,omitempty"`
	SKU         string         `json:"sku,omitempty"`
	SimType     string         `json:"simType,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Variations  []RawVariation `json:"variations,omitempty"`
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func firstInt(vals ...int64) int64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// Normalize converts a remote record to the canonical product. Each field
// takes the first non-zero value of its fallback chain.
func Normalize(r RawProduct) model.Product {
	p := model.Product{
		ID:          firstString(r.MongoID, r.ID),
		Brand:       r.Brand,
		Model:       r.Model,
		ModelNumber: r.ModelNumber,
		Grade:       r.Grade,
		Storage:     r.Storage,
		Color:       r.Color,
		Origin:      firstString(r.PhoneOrigin, r.Origin, DefaultOrigin),
		PriceUSD:    firstFloat(r.RetailPrice, r.PriceUSD),
		Stock:       firstInt(r.Quantity, r.Stock),
		SimType:     r.SimType,
		ImageURL:    firstString(r.ImageURL, ImageFor(r.Model)),
		Variations:  make([]model.Variation, 0, len(r.Variations)),
	}
	for _, v := range r.Variations {
		p.Variations = append(p.Variations, model.Variation(v))
	}
	return p
}

// NormalizeAll converts remote records, dropping those without an id.
func NormalizeAll(rs []RawProduct) []model.Product {
	out := make([]model.Product, 0, len(rs))
	for _, r := range rs {
		p := Normalize(r)
		if p.ID == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Product family images, chosen by model name.
const (
	imageDynamicIsland = "https://upload.wikimedia.org/wikipedia/commons/thumb/2/22/IPhone_14_Pro_vector.svg/640px-IPhone_14_Pro_vector.svg.png"
	imageNotch         = "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a8/IPhone_13_Pro_vector.svg/640px-IPhone_13_Pro_vector.svg.png"
	imageHomeButton    = "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d5/IPhone_SE_%283rd_generation%29_vector.svg/640px-IPhone_SE_%283rd_generation%29_vector.svg.png"
	imageGeneric       = "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3a/Pixel_7_Pro_vector.svg/640px-Pixel_7_Pro_vector.svg.png"
)

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ImageFor picks a placeholder image for a model name.
func ImageFor(modelName string) string {
	name := strings.ToLower(modelName)
	switch {
	case containsAny(name, "iphone 16", "iphone 15", "iphone 14 pro"):
		return imageDynamicIsland
	case containsAny(name, "iphone 14", "iphone 13", "iphone 12", "iphone 11", "iphone x", "xr", "xs"):
		return imageNotch
	case containsAny(name, "se", "8", "7", "6"):
		return imageHomeButton
	default:
		return imageGeneric
	}
}
