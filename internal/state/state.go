// Package state is the storefront's per-session application state and the
// pure reducers that advance it. Reducers never mutate their input.
package state

import (
	"slices"

	"github.com/fairyhunter13/cryzo-storefront/internal/cart"
	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/view"
)

// AIMessage is the assistant's last commentary on a search.
type AIMessage struct {
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Model      string `json:"model,omitempty"`
}

// AppState is everything one shopper session sees.
type AppState struct {
	Nav   view.Controller  `json:"-"`
	Cart  []model.CartItem `json:"cart"`
	Saved []string         `json:"saved"`
	// Displayed overrides the full catalog after a search. Nil means show
	// the catalog.
	Displayed []model.Product `json:"displayed,omitempty"`
	Query     string          `json:"query,omitempty"`
	AI        AIMessage       `json:"ai"`
	User      *model.User     `json:"user,omitempty"`
}

// Initial is the state of a new session.
func Initial() AppState {
	return AppState{Nav: view.NewController(), Cart: []model.CartItem{}, Saved: []string{}}
}

// View returns the current view.
func (s AppState) View() view.View {
	return s.Nav.Current()
}

// AddToCart merges qty units of p into the cart.
func AddToCart(s AppState, p model.Product, qty int) AppState {
	s.Cart = cart.AddToCart(s.Cart, p, qty)
	return s
}

// UpdateQuantity applies delta to the line for id.
func UpdateQuantity(s AppState, id string, delta int) AppState {
	s.Cart = cart.UpdateQuantity(s.Cart, id, delta)
	return s
}

// RemoveLine drops the line for id.
func RemoveLine(s AppState, id string) AppState {
	s.Cart = cart.RemoveLine(s.Cart, id)
	return s
}

// ClearCart empties the cart.
func ClearCart(s AppState) AppState {
	s.Cart = []model.CartItem{}
	return s
}

// SetView navigates to v.
func SetView(s AppState, v view.View) AppState {
	s.Nav = s.Nav.Navigate(v)
	return s
}

// ToggleSaved adds id to the watchlist, or removes it if already saved.
func ToggleSaved(s AppState, id string) AppState {
	if i := slices.Index(s.Saved, id); i >= 0 {
		s.Saved = slices.Delete(slices.Clone(s.Saved), i, i+1)
		return s
	}
	s.Saved = append(slices.Clone(s.Saved), id)
	return s
}

// IsSaved reports whether id is on the watchlist.
func IsSaved(s AppState, id string) bool {
	return slices.Contains(s.Saved, id)
}

// ShowProducts replaces the displayed list with a search result and returns
// to the home view.
func ShowProducts(s AppState, query string, products []model.Product, ai AIMessage) AppState {
	if products == nil {
		products = []model.Product{}
	}
	s.Displayed = slices.Clone(products)
	s.Query = query
	s.AI = ai
	return SetView(s, view.Home)
}

// ResetProducts goes back to showing the full catalog.
func ResetProducts(s AppState) AppState {
	s.Displayed = nil
	s.Query = ""
	s.AI = AIMessage{}
	return s
}

// SetUser records the signed-in user, or nil after sign-out. Signing out
// while on the profile page returns home.
func SetUser(s AppState, u *model.User) AppState {
	if u != nil {
		c := *u
		u = &c
	}
	s.User = u
	if u == nil && s.View() == view.Profile {
		s = SetView(s, view.Home)
	}
	return s
}
