// Package coupons validates promotional codes against a cart snapshot and
// computes the resulting discount. Validation is pure: the outcome depends
// only on the code, the snapshot, the catalog, and the current date, and it
// never mutates usage counters.
package coupons

import (
	"fmt"
	"strings"
	"time"

	"github.com/hanagata/storefront/internal/domain"
)

// CartTotals is the read-only view of the cart the engine consumes.
type CartTotals struct {
	TotalPrice float64
}

// Validation is the structured outcome of evaluating a code. Failures carry a
// human-readable message and are results, never errors.
type Validation struct {
	IsValid  bool           `json:"isValid"`
	Message  string         `json:"message,omitempty"`
	Coupon   *domain.Coupon `json:"coupon,omitempty"`
	Discount float64        `json:"discount,omitempty"`
}

// Engine evaluates codes against a catalog using an injected clock.
type Engine struct {
	catalog Catalog
	clock   func() time.Time
}

// NewEngine constructs an Engine. A nil clock falls back to time.Now.
func NewEngine(catalog Catalog, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		catalog: catalog,
		clock:   func() time.Time { return clock().UTC() },
	}
}

// Validate runs the eligibility rules in order: existence, expiry, usage
// limit, minimum purchase. On success the result carries the resolved coupon
// and the computed discount, capped at the order total for fixed coupons.
func (e *Engine) Validate(code string, cart CartTotals) Validation {
	coupon, ok := e.catalog.Find(code)
	if !ok {
		return Validation{IsValid: false, Message: "Invalid coupon code"}
	}

	if expired(coupon.ExpiryDate, e.clock()) {
		return Validation{IsValid: false, Message: "Coupon expired"}
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return Validation{IsValid: false, Message: "Coupon usage limit reached"}
	}

	if cart.TotalPrice < coupon.MinPurchase {
		return Validation{
			IsValid: false,
			Message: fmt.Sprintf("Minimum purchase of $%.2f required", coupon.MinPurchase),
		}
	}

	var discount float64
	switch coupon.DiscountType {
	case domain.DiscountPercentage:
		discount = cart.TotalPrice * coupon.DiscountValue / 100
	case domain.DiscountFixed:
		discount = coupon.DiscountValue
		if discount > cart.TotalPrice {
			discount = cart.TotalPrice
		}
	}

	resolved := coupon
	return Validation{IsValid: true, Coupon: &resolved, Discount: discount}
}

// expired reports whether the expiry date falls strictly before the current
// date, compared at calendar-day granularity in UTC. A coupon expiring today
// is still valid.
func expired(expiry, now time.Time) bool {
	if expiry.IsZero() {
		return false
	}
	return dateOf(expiry).Before(dateOf(now))
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
