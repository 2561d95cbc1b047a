package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanagata/storefront/internal/coupons"
	"github.com/hanagata/storefront/internal/domain"
)

func TestCouponValidateAgainstCartTotal(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	// SAVE20 needs a 50.00 minimum; 4 x 15.00 qualifies.
	addCartItem(t, ts, "user-1", domain.Product{ID: 1, Title: "Candle", Price: 15}, 4)

	resp := doJSON(t, ts.Server, http.MethodPost, "/api/v1/coupons/validate", "user-1", map[string]string{"code": "SAVE20"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[coupons.Validation](t, resp)
	require.True(t, result.IsValid)
	require.InDelta(t, 12, result.Discount, 1e-9)
	require.NotNil(t, result.Coupon)
	require.Equal(t, "SAVE20", result.Coupon.Code)
}

func TestCouponValidateBelowMinimumIsStillOK(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	addCartItem(t, ts, "user-1", domain.Product{ID: 1, Title: "Candle", Price: 15}, 1)

	resp := doJSON(t, ts.Server, http.MethodPost, "/api/v1/coupons/validate", "user-1", map[string]string{"code": "SAVE20"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[coupons.Validation](t, resp)
	require.False(t, result.IsValid)
	require.Equal(t, "Minimum purchase of $50.00 required", result.Message)
}

func TestCouponValidateUnknownCode(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	resp := doJSON(t, ts.Server, http.MethodPost, "/api/v1/coupons/validate", "user-1", map[string]string{"code": "NOPE"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[coupons.Validation](t, resp)
	require.False(t, result.IsValid)
	require.Equal(t, "Invalid coupon code", result.Message)
}

func TestCouponValidateRequiresCode(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	resp := doJSON(t, ts.Server, http.MethodPost, "/api/v1/coupons/validate", "user-1", map[string]string{"code": "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCouponValidateUsesRequestersCart(t *testing.T) {
	t.Parallel()
	ts := newFixture(t)

	addCartItem(t, ts, "user-1", domain.Product{ID: 1, Title: "Candle", Price: 60}, 1)

	// user-2's empty cart fails the minimum even though user-1 qualifies.
	resp := doJSON(t, ts.Server, http.MethodPost, "/api/v1/coupons/validate", "user-2", map[string]string{"code": "SAVE20"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[coupons.Validation](t, resp)
	require.False(t, result.IsValid)
}
