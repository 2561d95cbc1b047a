package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hanagata/storefront/internal/coupons"
	"github.com/hanagata/storefront/internal/platform/httpx"
	"github.com/hanagata/storefront/internal/stores"
)

// CouponHandlers validates coupon codes against the requesting shopper's cart.
type CouponHandlers struct {
	registry *stores.Registry
	engine   *coupons.Engine
}

// NewCouponHandlers constructs coupon handlers.
func NewCouponHandlers(registry *stores.Registry, engine *coupons.Engine) *CouponHandlers {
	return &CouponHandlers{registry: registry, engine: engine}
}

// Routes wires the /coupons endpoints onto the provided router.
func (h *CouponHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/validate", h.validate)
}

type validateCouponRequest struct {
	Code string `json:"code"`
}

// validate always answers 200 with the structured result; an ineligible
// coupon is a result for the UI to display, not a transport error.
func (h *CouponHandlers) validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.registry == nil || h.engine == nil {
		httpx.WriteError(ctx, w, httpx.NewError("coupons_unavailable", "coupon engine is unavailable", http.StatusServiceUnavailable))
		return
	}

	var req validateCouponRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "coupon code is required", http.StatusBadRequest))
		return
	}

	cart, err := h.registry.Cart(ctx, userScope(r))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart store is unavailable", http.StatusServiceUnavailable))
		return
	}

	result := h.engine.Validate(req.Code, coupons.CartTotals{TotalPrice: cart.TotalPrice()})
	writeJSONResponse(w, http.StatusOK, result)
}
