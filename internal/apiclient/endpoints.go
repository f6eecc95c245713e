package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/cart"
	"github.com/fairyhunter13/cryzo-storefront/internal/catalog"
	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/respcache"
	"github.com/fairyhunter13/cryzo-storefront/internal/search"
)

// DefaultContact is returned when the contact endpoint is unavailable.
var DefaultContact = Contact{Email: "sales@cryzo.co.in", Phone: "+1 940-400-9316"}

// Contact is the sales contact shown on the contact page.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type productList struct {
	Products []catalog.RawProduct `json:"products"`
	Total    int                  `json:"total"`
}

// SearchFilters are the structured filters the AI extracted from a query.
// Null fields were not extracted.
type SearchFilters struct {
	Brand    *string  `json:"brand,omitempty"`
	Model    *string  `json:"model,omitempty"`
	Grade    *string  `json:"grade,omitempty"`
	Storage  *string  `json:"storage,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	Origin   *string  `json:"origin,omitempty"`
}

// Filters flattens f into a local quick-search filter.
func (f *SearchFilters) Filters() search.Filters {
	if f == nil {
		return search.Filters{}
	}
	str := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	num := func(n *float64) float64 {
		if n == nil {
			return 0
		}
		return *n
	}
	return search.Filters{
		Brand:    str(f.Brand),
		Model:    str(f.Model),
		Grade:    str(f.Grade),
		Storage:  str(f.Storage),
		Origin:   str(f.Origin),
		MinPrice: num(f.MinPrice),
		MaxPrice: num(f.MaxPrice),
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Image string `json:"image,omitempty"`
}

type searchPayload struct {
	Success        bool                 `json:"success"`
	Query          string               `json:"query"`
	Model          string               `json:"model"`
	Intent         string               `json:"intent,omitempty"`
	Message        string               `json:"message,omitempty"`
	Suggestion     string               `json:"suggestion,omitempty"`
	Products       []catalog.RawProduct `json:"products"`
	Filters        *SearchFilters       `json:"filters,omitempty"`
	ProcessingTime float64              `json:"processingTime,omitempty"`
	Error          string               `json:"error,omitempty"`
	Fallback       bool                 `json:"fallback,omitempty"`
}

// SearchResult is a normalized AI search response.
type SearchResult struct {
	Query          string          `json:"query"`
	Model          string          `json:"model"`
	Intent         string          `json:"intent,omitempty"`
	Message        string          `json:"message,omitempty"`
	Suggestion     string          `json:"suggestion,omitempty"`
	Products       []model.Product `json:"products"`
	Filters        *SearchFilters  `json:"filters,omitempty"`
	ProcessingTime float64         `json:"processing_time,omitempty"`
	Fallback       bool            `json:"fallback,omitempty"`
	Cached         bool            `json:"cached"`
}

func (p searchPayload) result() SearchResult {
	return SearchResult{
		Query:          p.Query,
		Model:          p.Model,
		Intent:         p.Intent,
		Message:        p.Message,
		Suggestion:     p.Suggestion,
		Products:       catalog.NormalizeAll(p.Products),
		Filters:        p.Filters,
		ProcessingTime: p.ProcessingTime,
		Fallback:       p.Fallback,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Intent   string `json:"intent,omitempty"`
}

type checkoutRequest struct {
	Items         []cart.CheckoutLine `json:"items"`
	CustomerEmail string              `json:"customerEmail,omitempty"`
}

type checkoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FetchProducts returns the full normalized catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var out productList
	if _, err := c.doJSON(ctx, "fetch_products", http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return catalog.NormalizeAll(out.Products), nil
}

// GetProduct returns one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var raw catalog.RawProduct
	if _, err := c.doJSON(ctx, "get_product", http.MethodGet, "/products/"+url.PathEscape(id), nil, &raw); err != nil {
		return model.Product{}, err
	}
	p := catalog.Normalize(raw)
	if p.ID == "" {
		return model.Product{}, &Error{Op: "get_product", Kind: Fatal, Err: errors.Wrap(catalog.ErrNotFound, id)}
	}
	return p, nil
}

// QuickSearch runs the structured, non-AI search.
func (c *Client) QuickSearch(ctx context.Context, f search.Filters) ([]model.Product, error) {
	path := "/search/quick"
	if q := f.Values().Encode(); q != "" {
		path += "?" + q
	}
	var out productList
	if _, err := c.doJSON(ctx, "quick_search", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return catalog.NormalizeAll(out.Products), nil
}

// AISearch sends a natural-language query, optionally with an image, to the
// AI search endpoint. Text-only successes are cached; a cached result has
// Cached set.
func (c *Client) AISearch(ctx context.Context, query, image string) (SearchResult, error) {
	const op = "ai_search"
	key := ""
	if image == "" {
		key = respcache.Key(respcache.NamespaceSearch, query)
	}
	var payload searchPayload
	if key != "" && c.cached(ctx, key, &payload) {
		res := payload.result()
		res.Cached = true
		return res, nil
	}
	raw, err := c.doJSON(ctx, op, http.MethodPost, "/search", searchRequest{Query: query, Image: image}, &payload)
	if err != nil {
		return SearchResult{}, err
	}
	if !payload.Success {
		msg := payload.Error
		if msg == "" {
			msg = payload.Message
		}
		return SearchResult{}, &Error{Op: op, Kind: Fatal, Err: errors.Wrap(ErrUnsuccessful, msg)}
	}
	if key != "" {
		c.store(ctx, key, raw)
	}
	return payload.result(), nil
}

// Chat sends a message to the AI assistant. Successful replies are cached.
func (c *Client) Chat(ctx context.Context, message string) (ChatReply, error) {
	const op = "chat"
	key := respcache.Key(respcache.NamespaceChat, message)
	var reply ChatReply
	if c.cached(ctx, key, &reply) {
		return reply, nil
	}
	raw, err := c.doJSON(ctx, op, http.MethodPost, "/chat", chatRequest{Message: message}, &reply)
	if err != nil {
		return ChatReply{}, err
	}
	if !reply.Success {
		return reply, &Error{Op: op, Kind: Fatal, Err: errors.Wrap(ErrUnsuccessful, reply.Response)}
	}
	c.store(ctx, key, raw)
	return reply, nil
}

// CreateCheckout opens a payment session for items and returns its redirect URL.
func (c *Client) CreateCheckout(ctx context.Context, items []cart.CheckoutLine, customerEmail string) (string, error) {
	const op = "create_checkout"
	var out checkoutResponse
	req := checkoutRequest{Items: items, CustomerEmail: customerEmail}
	if _, err := c.doJSON(ctx, op, http.MethodPost, "/checkout", req, &out); err != nil {
		return "", err
	}
	if !out.Success || out.URL == "" {
		msg := out.Error
		if msg == "" {
			msg = "no checkout url returned"
		}
		return "", &Error{Op: op, Kind: Fatal, Err: errors.Wrap(ErrUnsuccessful, msg)}
	}
	return out.URL, nil
}

// ContactInfo returns the sales contact, or DefaultContact when the endpoint
// fails.
func (c *Client) ContactInfo(ctx context.Context) Contact {
	var out Contact
	if _, err := c.doJSON(ctx, "contact_info", http.MethodGet, "/contact", nil, &out); err != nil {
		obs.Logger.Warn("contact_fallback", zap.Error(err))
		return DefaultContact
	}
	if out.Email == "" && out.Phone == "" {
		return DefaultContact
	}
	return out
}
