package domain

import (
	"time"
)

// Product is the minimal catalog shape the stores consume. Catalog fetchers
// may return richer objects; additional fields are ignored.
type Product struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
}

// CartItem is a single cart line. At most one entry exists per product id;
// adding the same product again increments Quantity instead of appending.
type CartItem struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
	Quantity  int     `json:"quantity"`
}

// LineTotal returns the extended price for the line.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// WishlistItem is a saved-for-later entry. AddedAt is set once at insertion
// and never mutated afterwards.
type WishlistItem struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Thumbnail string    `json:"thumbnail"`
	AddedAt   time.Time `json:"addedAt"`
}

// DiscountType distinguishes percentage coupons from fixed-amount coupons.
type DiscountType string

const (
	// DiscountPercentage interprets DiscountValue as a 0-100 percentage of the cart total.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed interprets DiscountValue as an absolute amount off the cart total.
	DiscountFixed DiscountType = "fixed"
)

// Coupon describes a named discount rule with eligibility constraints.
// UsageLimit is optional; a nil limit means unlimited redemptions.
type Coupon struct {
	Code          string       `json:"code" yaml:"code"`
	DiscountType  DiscountType `json:"discountType" yaml:"discount_type"`
	DiscountValue float64      `json:"discountValue" yaml:"discount_value"`
	MinPurchase   float64      `json:"minPurchase" yaml:"min_purchase"`
	ExpiryDate    time.Time    `json:"expiryDate" yaml:"expiry_date"`
	UsageLimit    *int         `json:"usageLimit,omitempty" yaml:"usage_limit,omitempty"`
	UsedCount     int          `json:"usedCount,omitempty" yaml:"used_count,omitempty"`
}

// CheckoutForm carries the user-entered checkout fields consumed verbatim by
// the order builder's address formatter.
type CheckoutForm struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

// OrderItem mirrors a cart line at the time of checkout.
type OrderItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

// OrderSummary is the immutable record produced at checkout. It is created
// once per submission and never modified afterwards.
type OrderSummary struct {
	OrderID     string      `json:"orderId"`
	FullName    string      `json:"fullName"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	TotalAmount float64     `json:"totalAmount"`
	OrderDate   string      `json:"orderDate"`
	Items       []OrderItem `json:"items"`
}
