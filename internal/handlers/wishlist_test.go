package handlers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanagata/storefront/internal/domain"
	"github.com/hanagata/storefront/internal/stores"
)

func putWishlistItem(t *testing.T, ts *serverFixture, userID string, product domain.Product) stores.WishlistSnapshot {
	t.Helper()
	path := "/api/v1/wishlist/" + strconv.Itoa(product.ID)
	resp := doJSON(t, ts.Server, http.MethodPut, path, userID, product)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[stores.WishlistSnapshot](t, resp)
}

func TestWishlistEndpointsAddIsIdempotent(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	tote := domain.Product{ID: 5, Title: "Tote Bag", Price: 18, Thumbnail: "tote.png"}

	snap := putWishlistItem(t, ts, "user-1", tote)
	require.Len(t, snap.Items, 1)

	snap = putWishlistItem(t, ts, "user-1", tote)
	require.Len(t, snap.Items, 1)
	require.Equal(t, "Tote Bag", snap.Items[0].Title)
	require.False(t, snap.Items[0].AddedAt.IsZero())
}

func TestWishlistEndpointsIgnoreExtraCatalogFields(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	resp := doJSON(t, ts.Server, http.MethodPut, "/api/v1/wishlist/5", "user-1", map[string]any{
		"id":          5,
		"title":       "Tote Bag",
		"price":       18,
		"thumbnail":   "tote.png",
		"description": "Canvas tote.",
		"category":    "accessories",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeBody[stores.WishlistSnapshot](t, resp)
	require.Len(t, snap.Items, 1)
	require.Equal(t, "Tote Bag", snap.Items[0].Title)
}

func TestWishlistEndpointsPathIDWins(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	// The body carries a different id; the path segment is authoritative.
	resp := doJSON(t, ts.Server, http.MethodPut, "/api/v1/wishlist/9", "user-1", domain.Product{ID: 5, Title: "Tote Bag", Price: 18})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[stores.WishlistSnapshot](t, resp)
	require.Len(t, snap.Items, 1)
	require.Equal(t, 9, snap.Items[0].ID)
}

func TestWishlistEndpointsRemove(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	putWishlistItem(t, ts, "user-1", domain.Product{ID: 5, Title: "Tote Bag", Price: 18})

	resp := doJSON(t, ts.Server, http.MethodDelete, "/api/v1/wishlist/5", "user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[stores.WishlistSnapshot](t, resp)
	require.Empty(t, snap.Items)

	// Repeat removal of an absent id is a no-op, not an error.
	resp = doJSON(t, ts.Server, http.MethodDelete, "/api/v1/wishlist/5", "user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWishlistEndpointsScopeByUserHeader(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	putWishlistItem(t, ts, "user-1", domain.Product{ID: 5, Title: "Tote Bag", Price: 18})

	resp := doJSON(t, ts.Server, http.MethodGet, "/api/v1/wishlist/", "user-2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[stores.WishlistSnapshot](t, resp)
	require.Empty(t, snap.Items)
}

func TestWishlistEndpointsClear(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	putWishlistItem(t, ts, "user-1", domain.Product{ID: 5, Title: "Tote Bag", Price: 18})
	putWishlistItem(t, ts, "user-1", domain.Product{ID: 6, Title: "Postcard Set", Price: 9})

	resp := doJSON(t, ts.Server, http.MethodDelete, "/api/v1/wishlist/", "user-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[stores.WishlistSnapshot](t, resp)
	require.Empty(t, snap.Items)
}
