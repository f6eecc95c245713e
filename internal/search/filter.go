// Package search implements the local product filters used when the remote
// AI search is unavailable.
package search

import (
	"strings"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// Tokens lower-cases q, splits it on whitespace and drops tokens of length <= 1.
func Tokens(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func haystack(p model.Product) string {
	return strings.ToLower(strings.Join([]string{p.Brand, p.Model, p.Grade, p.Origin, p.Storage}, " "))
}

// Filter keeps products whose haystack contains any query token. A query with
// no usable tokens returns products unchanged.
func Filter(products []model.Product, q string) []model.Product {
	terms := Tokens(q)
	if len(terms) == 0 {
		return products
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		h := haystack(p)
		for _, term := range terms {
			if strings.Contains(h, term) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
