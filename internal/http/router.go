package httpapi

import (
	"expvar"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", app.listProductsHandler)
	mux.HandleFunc("GET /products/{id}", app.getProductHandler)
	mux.HandleFunc("POST /search", app.searchHandler)
	mux.HandleFunc("GET /search/quick", app.quickSearchHandler)
	mux.HandleFunc("POST /chat", app.chatHandler)
	mux.HandleFunc("GET /contact", app.contactHandler)

	mux.HandleFunc("GET /cart", app.getCartHandler)
	mux.HandleFunc("DELETE /cart", app.clearCartHandler)
	mux.HandleFunc("POST /cart/items", app.addCartItemHandler)
	mux.HandleFunc("PATCH /cart/items/{id}", app.updateCartItemHandler)
	mux.HandleFunc("DELETE /cart/items/{id}", app.removeCartItemHandler)
	mux.HandleFunc("POST /checkout", app.checkoutHandler)

	mux.HandleFunc("GET /watchlist", app.getWatchlistHandler)
	mux.HandleFunc("POST /watchlist/{id}", app.toggleWatchlistHandler)

	mux.HandleFunc("GET /view", app.getViewHandler)
	mux.HandleFunc("PUT /view", app.setViewHandler)

	mux.HandleFunc("POST /auth/signup", app.signUpHandler)
	mux.HandleFunc("POST /auth/signin", app.signInHandler)
	mux.HandleFunc("POST /auth/signout", app.signOutHandler)
	mux.HandleFunc("GET /auth/me", app.meHandler)

	mux.HandleFunc("GET /healthz", app.healthHandler)
	mux.HandleFunc("GET /debug/metrics", app.metricsHandler)
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)

	traced := otelhttp.NewHandler(mux, "storefront")
	return WithRequestID(WithSession(WithLogging(traced)))
}
