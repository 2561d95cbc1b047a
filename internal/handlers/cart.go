package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hanagata/storefront/internal/domain"
	"github.com/hanagata/storefront/internal/platform/httpx"
	"github.com/hanagata/storefront/internal/stores"
)

// CartHandlers exposes the cart operation set for the requesting shopper.
type CartHandlers struct {
	registry *stores.Registry
}

// NewCartHandlers constructs cart handlers backed by the store registry.
func NewCartHandlers(registry *stores.Registry) *CartHandlers {
	return &CartHandlers{registry: registry}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Patch("/items/{productID}", h.updateQuantity)
	r.Delete("/items/{productID}", h.removeItem)
}

type addItemRequest struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, cart.Snapshot())
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.Product.ID <= 0 {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}
	if req.Product.Price < 0 {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "product price must be non-negative", http.StatusBadRequest))
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	snap := cart.AddItem(r.Context(), req.Product, quantity)
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *CartHandlers) updateQuantity(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := decodeJSONBody(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	snap := cart.UpdateQuantity(r.Context(), productID, req.Quantity)
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	snap := cart.RemoveItem(r.Context(), productID)
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := h.cart(w, r)
	if !ok {
		return
	}
	snap := cart.Clear(r.Context())
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *CartHandlers) cart(w http.ResponseWriter, r *http.Request) (*stores.CartStore, bool) {
	if h.registry == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("cart_unavailable", "cart store is unavailable", http.StatusServiceUnavailable))
		return nil, false
	}
	cart, err := h.registry.Cart(r.Context(), userScope(r))
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("cart_unavailable", "cart store is unavailable", http.StatusServiceUnavailable))
		return nil, false
	}
	return cart, true
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "productID"))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "product id must be a positive integer", http.StatusBadRequest))
		return 0, false
	}
	return id, true
}
