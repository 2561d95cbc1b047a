// Package handlers exposes the storefront core over HTTP for UI collaborators.
// All visual presentation stays with the caller; these endpoints only surface
// the store snapshots and operations.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hanagata/storefront/internal/platform/httpx"
)

const (
	defaultAPIPrefix = "/api/v1"
	defaultTimeout   = 60 * time.Second

	// userIDHeader scopes a request to an authenticated shopper. Requests
	// without it operate on the anonymous default scope.
	userIDHeader = "X-User-ID"
)

// RouterDeps carries the handler groups mounted on the router.
type RouterDeps struct {
	Cart        *CartHandlers
	Wishlist    *WishlistHandlers
	Coupons     *CouponHandlers
	Checkout    *CheckoutHandlers
	Middlewares []func(http.Handler) http.Handler
}

// NewRouter constructs the chi router with shared middleware and route groups.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(defaultTimeout))
	for _, mw := range deps.Middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(defaultAPIPrefix, func(api chi.Router) {
		if deps.Cart != nil {
			api.Route("/cart", deps.Cart.Routes)
		}
		if deps.Wishlist != nil {
			api.Route("/wishlist", deps.Wishlist.Routes)
		}
		if deps.Coupons != nil {
			api.Route("/coupons", deps.Coupons.Routes)
		}
		if deps.Checkout != nil {
			api.Route("/checkout", deps.Checkout.Routes)
		}
	})

	return r
}

// userScope extracts the shopper scope from the request. The empty string is
// the anonymous default scope.
func userScope(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSONBody accepts unknown fields: callers pass catalog objects through
// verbatim, and those carry more fields than the stores consume.
func decodeJSONBody(r *http.Request, dest any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 16*1024))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
