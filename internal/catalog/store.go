// Package catalog holds the product list the storefront browses, and the
// loading and normalization that produce it.
package catalog

import (
	"errors"
	"sync"

	"github.com/fairyhunter13/cryzo-storefront/internal/model"
)

// ErrNotFound is returned when a product id is not in the catalog.
var ErrNotFound = errors.New("product not found")

// Source identifies where the current catalog came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Store is the in-memory catalog. The list is read-only once loaded and is
// only ever swapped as a whole.
type Store struct {
	mu       sync.RWMutex
	products []model.Product
	byID     map[string]int
	source   Source
}

// NewStore returns an empty catalog.
func NewStore() *Store {
	return &Store{byID: make(map[string]int), source: SourceNone}
}

// Replace swaps in a new product list. Later duplicates of an id are dropped.
func (s *Store) Replace(products []model.Product, src Source) {
	list := make([]model.Product, 0, len(products))
	idx := make(map[string]int, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if _, dup := idx[p.ID]; dup {
			continue
		}
		idx[p.ID] = len(list)
		list = append(list, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = list
	s.byID = idx
	s.source = src
}

// All returns the products in load order. Callers must not modify the slice.
func (s *Store) All() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Get returns the product with id.
func (s *Store) Get(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return s.products[i], true
}

// Len returns the number of products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Source reports where the current list was loaded from.
func (s *Store) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}
