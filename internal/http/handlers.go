package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fairyhunter13/cryzo-storefront/internal/apiclient"
	httpopenapi "github.com/fairyhunter13/cryzo-storefront/internal/http/openapi"
	"github.com/fairyhunter13/cryzo-storefront/internal/model"
	"github.com/fairyhunter13/cryzo-storefront/internal/obs"
	"github.com/fairyhunter13/cryzo-storefront/internal/profit"
	"github.com/fairyhunter13/cryzo-storefront/internal/search"
	"github.com/fairyhunter13/cryzo-storefront/internal/state"
	"github.com/fairyhunter13/cryzo-storefront/internal/variation"
	"github.com/fairyhunter13/cryzo-storefront/internal/view"
)

// chatFailureReply is shown when the assistant cannot be reached.
const chatFailureReply = "Connection error. Please try again."

type productCard struct {
	model.Product
	Saved bool `json:"saved"`
}

type productList struct {
	Products []productCard    `json:"products"`
	Total    int              `json:"total"`
	Query    string           `json:"query,omitempty"`
	AI       *state.AIMessage `json:"ai,omitempty"`
}

type productDetail struct {
	Product   model.Product     `json:"product"`
	Selection model.Selection   `json:"selection"`
	Price     float64           `json:"price"`
	Stock     int64             `json:"stock"`
	Match     string            `json:"match"`
	Options   variation.Options `json:"options"`
	Saved     bool              `json:"saved"`
	Profit    []profit.Estimate `json:"profit"`
}

type searchRequest struct {
	Query string `json:"query"`
	Image string `json:"image,omitempty"`
}

type searchResponse struct {
	productList
	Source   string `json:"source"`
	Cached   bool   `json:"cached"`
	Fallback bool   `json:"fallback"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent,omitempty"`
	Success  bool   `json:"success"`
}

func (a *App) cards(s state.AppState, products []model.Product) []productCard {
	out := make([]productCard, 0, len(products))
	for _, p := range products {
		out = append(out, productCard{Product: p, Saved: state.IsSaved(s, p.ID)})
	}
	return out
}

func (a *App) list(s state.AppState, products []model.Product, query string, ai *state.AIMessage) productList {
	return productList{Products: a.cards(s, products), Total: len(products), Query: query, AI: ai}
}

// listProductsHandler returns the session's displayed products. A q parameter
// runs the local filter over the full catalog instead, and structured
// parameters apply the quick filter.
func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())
	s := a.Sessions.Get(sid)
	a.Sessions.Touch(sid)

	qv := r.URL.Query()
	q := strings.TrimSpace(qv.Get("q"))
	f := search.FiltersFromValues(qv)
	switch {
	case q != "":
		products := search.Quick(search.Filter(a.Catalog.All(), q), f)
		writeJSON(w, http.StatusOK, a.list(s, products, q, nil))
	case s.Displayed != nil:
		var ai *state.AIMessage
		if s.AI != (state.AIMessage{}) {
			ai = &s.AI
		}
		writeJSON(w, http.StatusOK, a.list(s, search.Quick(s.Displayed, f), s.Query, ai))
	default:
		writeJSON(w, http.StatusOK, a.list(s, search.Quick(a.Catalog.All(), f), "", nil))
	}
}

// getProductHandler resolves the requested variation of a product and
// simulates resale margins at the resolved price. Products missing from the
// local catalog are looked up among search results and upstream.
func (a *App) getProductHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Get(SessionIDFromContext(r.Context()))
	p, ok := a.lookupProduct(r.Context(), s, r.PathValue("id"))
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	qv := r.URL.Query()
	sel := variation.Merge(variation.DefaultSelection(p), model.Selection{
		Storage: qv.Get("storage"),
		Grade:   qv.Get("grade"),
		Color:   qv.Get("color"),
		Origin:  qv.Get("origin"),
	})
	res := variation.Resolve(p, sel)
	writeJSON(w, http.StatusOK, productDetail{
		Product:   p,
		Selection: sel,
		Price:     res.Price,
		Stock:     res.Stock,
		Match:     res.Level.String(),
		Options:   variation.OptionsOf(p),
		Saved:     state.IsSaved(s, p.ID),
		Profit:    profit.SimulateAll(res.Price),
	})
}

// searchHandler runs the AI search, optionally with an image. When the AI is
// unavailable or finds nothing, the local filter is used, narrowed by any
// filters the AI extracted. The result becomes the session's displayed list
// and the session returns home.
func (a *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	sid := SessionIDFromContext(r.Context())
	q := strings.TrimSpace(req.Query)
	image := strings.TrimSpace(req.Image)
	if q == "" && image == "" {
		s := a.Sessions.Update(sid, func(s state.AppState) state.AppState {
			return state.SetView(state.ResetProducts(s), view.Home)
		})
		writeJSON(w, http.StatusOK, searchResponse{productList: a.list(s, a.Catalog.All(), "", nil), Source: "catalog"})
		return
	}
	a.stats.searches.Add(1)

	resp := searchResponse{Source: "ai"}
	var (
		products []model.Product
		ai       state.AIMessage
		hints    search.Filters
	)
	if a.API != nil {
		res, err := a.API.AISearch(r.Context(), q, image)
		switch {
		case err != nil:
			obs.Logger.Warn("ai_search_failed", zap.String("query", q), zap.String("kind", string(apiclient.KindOf(err))), zap.Error(err))
		case len(res.Products) == 0:
			obs.Logger.Info("ai_search_empty", zap.String("query", q))
			ai = state.AIMessage{Message: res.Message, Suggestion: res.Suggestion, Model: res.Model}
			hints = res.Filters.Filters()
		default:
			products = res.Products
			ai = state.AIMessage{Message: res.Message, Suggestion: res.Suggestion, Model: res.Model}
			resp.Cached = res.Cached
			resp.Fallback = res.Fallback
		}
	}
	if products == nil {
		a.stats.searchFallbacks.Add(1)
		products = search.Filter(a.Catalog.All(), q)
		if !hints.Empty() {
			if narrowed := search.Quick(products, hints); len(narrowed) > 0 {
				products = narrowed
			}
		}
		resp.Source = "local"
		resp.Fallback = true
		if ai.Message == "" {
			ai.Message = fmt.Sprintf("Found %d results for %q", len(products), q)
		}
		if ai.Model == "" {
			ai.Model = "fallback"
		}
	}
	s := a.Sessions.Update(sid, func(s state.AppState) state.AppState {
		return state.ShowProducts(s, q, products, ai)
	})
	resp.productList = a.list(s, s.Displayed, q, &s.AI)
	writeJSON(w, http.StatusOK, resp)
}

// quickSearchHandler applies structured filters upstream, falling back to the
// local catalog. The result becomes the session's displayed list.
func (a *App) quickSearchHandler(w http.ResponseWriter, r *http.Request) {
	f := search.FiltersFromValues(r.URL.Query())
	var products []model.Product
	if a.API != nil && !f.Empty() {
		remote, err := a.API.QuickSearch(r.Context(), f)
		if err == nil {
			products = remote
		} else {
			a.stats.upstreamFallbacks.Add(1)
			obs.Logger.Warn("quick_search_failed", zap.Error(err))
		}
	}
	if products == nil {
		products = search.Quick(a.Catalog.All(), f)
	}
	s := a.Sessions.Update(SessionIDFromContext(r.Context()), func(s state.AppState) state.AppState {
		return state.ShowProducts(s, "", products, state.AIMessage{})
	})
	writeJSON(w, http.StatusOK, a.list(s, s.Displayed, "", nil))
}

func (a *App) chatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "message is required")
		return
	}
	a.stats.chats.Add(1)
	if a.API == nil {
		a.stats.chatFailures.Add(1)
		writeJSON(w, http.StatusOK, chatResponse{Response: chatFailureReply})
		return
	}
	reply, err := a.API.Chat(r.Context(), msg)
	if err != nil {
		a.stats.chatFailures.Add(1)
		obs.Logger.Warn("chat_failed", zap.String("kind", string(apiclient.KindOf(err))), zap.Error(err))
		text := reply.Response
		if text == "" {
			text = chatFailureReply
		}
		writeJSON(w, http.StatusOK, chatResponse{Response: text})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: reply.Response, Intent: reply.Intent, Success: true})
}

func (a *App) contactHandler(w http.ResponseWriter, r *http.Request) {
	c := apiclient.DefaultContact
	if a.API != nil {
		c = a.API.ContactInfo(r.Context())
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if a.Closing() {
		status, code = "shutting_down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status, "catalog_source": string(a.Catalog.Source())})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	m := map[string]any{
		"catalog_products":   a.Catalog.Len(),
		"catalog_source":     a.Catalog.Source(),
		"sessions":           a.Sessions.Len(),
		"sessions_evicted":   a.stats.sessionsEvicted.Load(),
		"searches":           a.stats.searches.Load(),
		"search_fallbacks":   a.stats.searchFallbacks.Load(),
		"chats":              a.stats.chats.Load(),
		"chat_failures":      a.stats.chatFailures.Load(),
		"cart_mutations":     a.stats.cartMutations.Load(),
		"checkouts":          a.stats.checkouts.Load(),
		"checkouts_blocked":  a.stats.checkoutsBlocked.Load(),
		"checkouts_failed":   a.stats.checkoutsFailed.Load(),
		"upstream_fallbacks": a.stats.upstreamFallbacks.Load(),
		"uptime_sec":         time.Since(a.started).Seconds(),
	}
	if a.API != nil {
		if cs, ok := a.API.CacheStats(); ok {
			m["response_cache"] = cs
		}
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Storefront API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
