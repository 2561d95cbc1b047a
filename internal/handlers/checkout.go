package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hanagata/storefront/internal/checkout"
	"github.com/hanagata/storefront/internal/coupons"
	"github.com/hanagata/storefront/internal/domain"
	"github.com/hanagata/storefront/internal/platform/httpx"
	"github.com/hanagata/storefront/internal/stores"
)

// CheckoutHandlers submits orders built from the shopper's cart snapshot and
// checkout form values.
type CheckoutHandlers struct {
	registry *stores.Registry
	builder  *checkout.Builder
	engine   *coupons.Engine
}

// NewCheckoutHandlers constructs checkout handlers.
func NewCheckoutHandlers(registry *stores.Registry, builder *checkout.Builder, engine *coupons.Engine) *CheckoutHandlers {
	return &CheckoutHandlers{registry: registry, builder: builder, engine: engine}
}

// Routes wires the /checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submit)
}

type submitOrderRequest struct {
	Form       domain.CheckoutForm `json:"form"`
	CouponCode string              `json:"couponCode,omitempty"`
}

// submit captures the cart snapshot, optionally applies a validated coupon to
// the total, waits for the simulated placement to resolve, clears the cart,
// and returns the immutable summary. The handler blocks for the configured
// placement delay; the request timeout bounds the wait.
func (h *CheckoutHandlers) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.registry == nil || h.builder == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout is unavailable", http.StatusServiceUnavailable))
		return
	}

	var req submitOrderRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Form.FullName) == "" || strings.TrimSpace(req.Form.Email) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "full name and email are required", http.StatusBadRequest))
		return
	}

	cart, err := h.registry.Cart(ctx, userScope(r))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart store is unavailable", http.StatusServiceUnavailable))
		return
	}

	items := cart.Items()
	if len(items) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("cart_empty", "cannot check out an empty cart", http.StatusConflict))
		return
	}

	total := cart.TotalPrice()
	if code := strings.TrimSpace(req.CouponCode); code != "" && h.engine != nil {
		result := h.engine.Validate(code, coupons.CartTotals{TotalPrice: total})
		if !result.IsValid {
			httpx.WriteError(ctx, w, httpx.NewError("coupon_rejected", result.Message, http.StatusUnprocessableEntity))
			return
		}
		total -= result.Discount
		if total < 0 {
			total = 0
		}
	}

	// The snapshot is captured by value at call time (see checkout.Builder);
	// late cart mutations cannot change the resolved summary.
	pending := h.builder.SubmitOrder(req.Form, items, total)

	select {
	case summary := <-pending:
		cart.Clear(ctx)
		writeJSONResponse(w, http.StatusCreated, summary)
	case <-ctx.Done():
		// The placement still resolves after its delay; only this caller
		// stopped waiting.
		httpx.WriteError(ctx, w, httpx.NewError("request_cancelled", "caller abandoned the checkout request", http.StatusServiceUnavailable))
	}
}
