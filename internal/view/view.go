// Package view holds the storefront's flat page state machine.
package view

import (
	"errors"
	"fmt"
)

// View names a storefront page.
type View string

const (
	Home      View = "home"
	Cart      View = "cart"
	Watchlist View = "watchlist"
	Profile   View = "profile"
	Signup    View = "signup"
	Contact   View = "contact"
	About     View = "about"
	Terms     View = "terms"
	Privacy   View = "privacy"
	Shipping  View = "shipping"
	Grading   View = "grading"
)

// All lists every view.
var All = []View{Home, Cart, Watchlist, Profile, Signup, Contact, About, Terms, Privacy, Shipping, Grading}

// ErrUnknownView is returned when parsing a name that is not a view.
var ErrUnknownView = errors.New("unknown view")

// Parse validates a view name.
func Parse(s string) (View, error) {
	for _, v := range All {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// IsLegal reports whether v is one of the static legal/info pages.
func IsLegal(v View) bool {
	switch v {
	case About, Terms, Privacy, Shipping, Grading:
		return true
	}
	return false
}

// ShowsChrome reports whether the navbar and footer render around v.
func ShowsChrome(v View) bool {
	return v != Profile && v != Signup
}

// Controller tracks the current view. Navigation overwrites it
// unconditionally; there is no history.
type Controller struct {
	current View
}

// NewController starts at Home.
func NewController() Controller {
	return Controller{current: Home}
}

// Current returns the active view. The zero Controller reports Home.
func (c Controller) Current() View {
	if c.current == "" {
		return Home
	}
	return c.current
}

// Navigate returns a controller positioned at v.
func (c Controller) Navigate(v View) Controller {
	c.current = v
	return c
}
