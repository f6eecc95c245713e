package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

func catalog() []model.Product {
	return []model.Product{
		{ID: "1", Brand: "Apple", Model: "iPhone 14 Pro", Origin: "US", Storage: "128GB", Grade: "Like New", PriceUSD: 700},
		{ID: "2", Brand: "Apple", Model: "iPhone 13", Origin: "EU", Storage: "256GB", Grade: "Good", PriceUSD: 400},
		{ID: "3", Brand: "Samsung", Model: "Galaxy S24", Origin: "HK", Storage: "256GB", Grade: "Refurb A", PriceUSD: 550},
	}
}

func TestFilter_EmptyInputs(t *testing.T) {
	assert.Empty(t, Filter([]model.Product{}, "anything"))
	ps := catalog()
	assert.Equal(t, ps, Filter(ps, ""))
	assert.Equal(t, ps, Filter(ps, "  a  b "))
}

func TestFilter_AnyTokenMatches(t *testing.T) {
	ps := []model.Product{
		{ID: "1", Brand: "Apple", Model: "iPhone 14 Pro", Origin: "US"},
		{ID: "2", Brand: "Apple", Model: "iPhone 13", Origin: "EU"},
	}
	got := Filter(ps, "14 us")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "1", got[0].ID)
	}
}

func TestFilter_CaseInsensitiveOR(t *testing.T) {
	got := Filter(catalog(), "SAMSUNG 13")
	ids := []string{}
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"2", "3"}, ids)
}

func TestFilter_ShortTokensDropped(t *testing.T) {
	// "a" would match every Apple/Samsung entry if kept.
	got := Filter(catalog(), "a galaxy")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "3", got[0].ID)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"iphone", "pro"}, Tokens("iPhone  X\tPro"))
	assert.Empty(t, Tokens(""))
}

func TestQuick(t *testing.T) {
	ps := catalog()
	assert.Equal(t, ps, Quick(ps, Filters{}))

	got := Quick(ps, Filters{Brand: "apple", MaxPrice: 500})
	if assert.Len(t, got, 1) {
		assert.Equal(t, "2", got[0].ID)
	}
	got = Quick(ps, Filters{Model: "iphone", MinPrice: 400, MaxPrice: 700})
	assert.Len(t, got, 2)
	got = Quick(ps, Filters{Storage: "256gb", Origin: "hk"})
	if assert.Len(t, got, 1) {
		assert.Equal(t, "3", got[0].ID)
	}
}

func TestFiltersValuesRoundTrip(t *testing.T) {
	f := Filters{Brand: "Apple", Storage: "256GB", MinPrice: 100.5}
	v := f.Values()
	assert.Equal(t, "Apple", v.Get("brand"))
	assert.Equal(t, "100.5", v.Get("minPrice"))
	assert.Empty(t, v.Get("maxPrice"))
	assert.Equal(t, f, FiltersFromValues(v))
	assert.True(t, FiltersFromValues(url.Values{"maxPrice": {"cheap"}}).Empty())
}
