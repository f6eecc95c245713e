package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/apiclient"
	"github.com/fairyhunter13/cryzo-storefront/internal/cart"
	"github.com/fairyhunter13/cryzo-storefront/internal/identity"
	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/state"
	"github.com/fairyhunter13/cryzo-storefront/internal/variation"
)

type cartLine struct {
	model.CartItem
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartView struct {
	Items   []cartLine   `json:"items"`
	Summary cart.Summary `json:"summary"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity,omitempty"`
	Storage   string `json:"storage,omitempty"`
	Grade     string `json:"grade,omitempty"`
	Color     string `json:"color,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

type updateItemRequest struct {
	Delta *int `json:"delta"`
}

type checkoutRequest struct {
	CustomerEmail string `json:"customer_email,omitempty"`
}

type checkoutResponse struct {
	URL     string       `json:"url"`
	Summary cart.Summary `json:"summary"`
}

type checkoutBlocked struct {
	Error   string       `json:"error"`
	Details string       `json:"details"`
	Reasons []string     `json:"reasons"`
	Summary cart.Summary `json:"summary"`
}

type watchlistView struct {
	Products []productCard `json:"products"`
	Total    int           `json:"total"`
}

func viewCart(items []model.CartItem) cartView {
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, cartLine{CartItem: it, LineTotal: cart.LineTotal(it)})
	}
	return cartView{Items: lines, Summary: cart.Summarize(items)}
}

// blockedReasons names every failed checkout gate.
func blockedReasons(s cart.Summary) []string {
	var reasons []string
	if s.Lines == 0 {
		reasons = append(reasons, "empty_cart")
	}
	if !s.MeetsMOQ {
		reasons = append(reasons, "below_min_units")
	}
	if !s.MeetsMinValue {
		reasons = append(reasons, "below_min_value")
	}
	if s.WireTransferRequired {
		reasons = append(reasons, "wire_transfer_required")
	}
	return reasons
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Get(SessionIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, viewCart(s.Cart))
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Update(SessionIDFromContext(r.Context()), state.ClearCart)
	a.stats.cartMutations.Add(1)
	writeJSON(w, http.StatusOK, viewCart(s.Cart))
}

// addCartItemHandler prices the product at the variation matching the
// requested attributes and merges it into the cart.
func (a *App) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.ProductID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product_id is required")
		return
	}
	qty := a.quickAddQty()
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty <= 0 || qty > cart.MaxQuantity {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("quantity must be between 1 and %d", cart.MaxQuantity))
		return
	}
	sid := SessionIDFromContext(r.Context())
	p, ok := a.lookupProduct(r.Context(), a.Sessions.Get(sid), req.ProductID)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "unknown product "+req.ProductID)
		return
	}
	sel := variation.Merge(variation.DefaultSelection(p), model.Selection{
		Storage: req.Storage, Grade: req.Grade, Color: req.Color, Origin: req.Origin,
	})
	res := variation.Resolve(p, sel)
	line := p
	line.PriceUSD = res.Price
	line.Stock = res.Stock
	if v := res.Variation; v != nil {
		line.Storage, line.Grade, line.Color, line.Origin = v.Storage, v.Grade, v.Color, v.Origin
	}

	s := a.Sessions.Update(sid, func(s state.AppState) state.AppState {
		return state.AddToCart(s, line, qty)
	})
	a.stats.cartMutations.Add(1)
	obs.Logger.Info("cart_item_added",
		zap.String("session_id", sid),
		zap.String("product_id", p.ID),
		zap.Int("quantity", qty),
		zap.String("match", res.Level.String()),
	)
	writeJSON(w, http.StatusOK, viewCart(s.Cart))
}

func (a *App) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req updateItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.Delta == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "delta is required")
		return
	}
	if d := *req.Delta; d > cart.MaxQuantity || d < -cart.MaxQuantity {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("delta must be within ±%d", cart.MaxQuantity))
		return
	}
	found := false
	s := a.Sessions.Update(SessionIDFromContext(r.Context()), func(s state.AppState) state.AppState {
		if _, found = cart.Find(s.Cart, id); !found {
			return s
		}
		return state.UpdateQuantity(s, id, *req.Delta)
	})
	if !found {
		WriteJSONError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	a.stats.cartMutations.Add(1)
	writeJSON(w, http.StatusOK, viewCart(s.Cart))
}

func (a *App) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s := a.Sessions.Update(SessionIDFromContext(r.Context()), func(s state.AppState) state.AppState {
		return state.RemoveLine(s, id)
	})
	a.stats.cartMutations.Add(1)
	writeJSON(w, http.StatusOK, viewCart(s.Cart))
}

// checkoutHandler opens a payment session for the cart once every wholesale
// gate passes. The signed-in user's email is used when none is given.
func (a *App) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	if a.Closing() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	var req checkoutRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeDecodeError(w, err)
		return
	}
	sid := SessionIDFromContext(r.Context())
	s := a.Sessions.Get(sid)
	sum := cart.Summarize(s.Cart)
	if !sum.CanCheckout {
		a.stats.checkoutsBlocked.Add(1)
		reasons := blockedReasons(sum)
		writeJSON(w, http.StatusConflict, checkoutBlocked{
			Error:   "checkout_blocked",
			Details: strings.Join(reasons, ","),
			Reasons: reasons,
			Summary: sum,
		})
		return
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" && s.User != nil {
		email = s.User.Email
	}
	if email != "" && !identity.ValidEmail(email) {
		writeFieldErrors(w, map[string]string{"customer_email": identity.MsgInvalidEmail})
		return
	}
	if a.API == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "checkout_unavailable", "")
		return
	}
	url, err := a.API.CreateCheckout(r.Context(), cart.CheckoutLines(s.Cart), email)
	if err != nil {
		a.stats.checkoutsFailed.Add(1)
		obs.Logger.Warn("checkout_failed", zap.String("session_id", sid), zap.String("kind", string(apiclient.KindOf(err))), zap.Error(err))
		WriteJSONError(w, http.StatusBadGateway, "checkout_failed", err.Error())
		return
	}
	a.stats.checkouts.Add(1)
	obs.Logger.Info("checkout_created", zap.String("session_id", sid), zap.String("subtotal", sum.Subtotal.String()), zap.Int("units", sum.Units))
	writeJSON(w, http.StatusOK, checkoutResponse{URL: url, Summary: sum})
}

func (a *App) getWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Get(SessionIDFromContext(r.Context()))
	products := a.savedProducts(r.Context(), s)
	writeJSON(w, http.StatusOK, watchlistView{Products: a.cards(s, products), Total: len(products)})
}

func (a *App) toggleWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sid := SessionIDFromContext(r.Context())
	if _, ok := a.lookupProduct(r.Context(), a.Sessions.Get(sid), id); !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "unknown product "+id)
		return
	}
	s := a.Sessions.Update(sid, func(s state.AppState) state.AppState {
		return state.ToggleSaved(s, id)
	})
	products := a.savedProducts(r.Context(), s)
	writeJSON(w, http.StatusOK, watchlistView{Products: a.cards(s, products), Total: len(products)})
}
