package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanagata/storefront/internal/domain"
	"github.com/hanagata/storefront/internal/platform/httpx"
	"github.com/hanagata/storefront/internal/stores"
)

// WishlistHandlers exposes the wishlist operation set for the requesting
// shopper. Toggling is composed by the caller from PUT and DELETE.
type WishlistHandlers struct {
	registry *stores.Registry
}

// NewWishlistHandlers constructs wishlist handlers backed by the store registry.
func NewWishlistHandlers(registry *stores.Registry) *WishlistHandlers {
	return &WishlistHandlers{registry: registry}
}

// Routes wires the /wishlist endpoints onto the provided router.
func (h *WishlistHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getWishlist)
	r.Delete("/", h.clearWishlist)
	r.Put("/{productID}", h.addItem)
	r.Delete("/{productID}", h.removeItem)
}

func (h *WishlistHandlers) getWishlist(w http.ResponseWriter, r *http.Request) {
	wl, ok := h.wishlist(w, r)
	if !ok {
		return
	}
	writeJSONResponse(w, http.StatusOK, wl.Snapshot())
}

func (h *WishlistHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	wl, ok := h.wishlist(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var product domain.Product
	if err := decodeJSONBody(r, &product); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	product.ID = productID

	snap := wl.Add(r.Context(), product)
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *WishlistHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	wl, ok := h.wishlist(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	snap := wl.Remove(r.Context(), productID)
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *WishlistHandlers) clearWishlist(w http.ResponseWriter, r *http.Request) {
	wl, ok := h.wishlist(w, r)
	if !ok {
		return
	}
	snap := wl.Clear(r.Context())
	writeJSONResponse(w, http.StatusOK, snap)
}

func (h *WishlistHandlers) wishlist(w http.ResponseWriter, r *http.Request) (*stores.WishlistStore, bool) {
	if h.registry == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("wishlist_unavailable", "wishlist store is unavailable", http.StatusServiceUnavailable))
		return nil, false
	}
	wl, err := h.registry.Wishlist(r.Context(), userScope(r))
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("wishlist_unavailable", "wishlist store is unavailable", http.StatusServiceUnavailable))
		return nil, false
	}
	return wl, true
}
