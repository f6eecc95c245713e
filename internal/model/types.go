// Package model defines domain types used by the service.
package model

// Variation is one sellable configuration of a product.
type Variation struct {
	Storage string  `json:"storage" yaml:"storage"`
	Grade   string  `json:"grade" yaml:"grade"`
	Color   string  `json:"color" yaml:"color"`
	Origin  string  `json:"origin" yaml:"origin"`
	Price   float64 `json:"price" yaml:"price"`
	Stock   int64   `json:"stock" yaml:"stock"`
}

// Product represents a catalog entry in its canonical form.
type Product struct {
	ID          string      `json:"id" yaml:"id"`
	Brand       string      `json:"brand" yaml:"brand"`
	Model       string      `json:"model" yaml:"model"`
	ModelNumber string      `json:"model_number,omitempty" yaml:"model_number"`
	Grade       string      `json:"grade" yaml:"grade"`
	Storage     string      `json:"storage" yaml:"storage"`
	Color       string      `json:"color,omitempty" yaml:"color"`
	Origin      string      `json:"origin" yaml:"origin"`
	PriceUSD    float64     `json:"price_usd" yaml:"price_usd"`
	Stock       int64       `json:"stock" yaml:"stock"`
	SimType     string      `json:"sim_type,omitempty" yaml:"sim_type"`
	ImageURL    string      `json:"image_url,omitempty" yaml:"image_url"`
	Variations  []Variation `json:"variations" yaml:"variations"`
}

// CartItem is a product line with a positive quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Selection is a partial choice of variation attributes. Empty fields are unset.
type Selection struct {
	Storage string `json:"storage,omitempty"`
	Grade   string `json:"grade,omitempty"`
	Color   string `json:"color,omitempty"`
	Origin  string `json:"origin,omitempty"`
}

// User is the identity surfaced by the identity provider.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}
