// Package checkout assembles immutable order summaries from the cart snapshot
// and checkout form, and models asynchronous order placement.
package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hanagata/storefront/internal/domain"
)

const (
	// DefaultSubmitDelay matches the simulated placement latency of the
	// storefront this layer backs.
	DefaultSubmitDelay = 1500 * time.Millisecond

	orderDateLayout = "January 2, 2006"
)

// BuilderDeps wires the id generator, clock, and submit delay. All fields are
// optional; zero values fall back to ulid ids, time.Now, and DefaultSubmitDelay.
type BuilderDeps struct {
	IDGenerator func() string
	Clock       func() time.Time
	SubmitDelay time.Duration
}

// Builder produces OrderSummary values. It never mutates the cart; callers
// pass the snapshot they want captured.
type Builder struct {
	newID func() string
	now   func() time.Time
	delay time.Duration
}

// NewBuilder constructs a Builder from deps.
func NewBuilder(deps BuilderDeps) *Builder {
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	delay := deps.SubmitDelay
	if delay <= 0 {
		delay = DefaultSubmitDelay
	}
	return &Builder{
		newID: newID,
		now:   func() time.Time { return clock().UTC() },
		delay: delay,
	}
}

// BuildSummary composes the order summary: a fresh unique order id, the
// address collapsed to one formatted line, the current date formatted for
// display, and each cart line mapped into the order item shape. Two calls
// with identical inputs differ only in their order ids.
func (b *Builder) BuildSummary(form domain.CheckoutForm, items []domain.CartItem, totalPrice float64) domain.OrderSummary {
	if totalPrice < 0 {
		totalPrice = 0
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ID:       item.ID,
			Name:     item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    item.Thumbnail,
		})
	}

	return domain.OrderSummary{
		OrderID:     b.newID(),
		FullName:    form.FullName,
		Email:       form.Email,
		Address:     formatAddress(form),
		TotalAmount: totalPrice,
		OrderDate:   b.now().Format(orderDateLayout),
		Items:       orderItems,
	}
}

// SubmitOrder models asynchronous order placement: it captures the cart items
// by value immediately, then delivers the built summary on the returned
// channel once the configured delay elapses. Submission never fails, and the
// underlying timer cannot be cancelled; a caller may abandon the channel
// without blocking delivery.
func (b *Builder) SubmitOrder(form domain.CheckoutForm, items []domain.CartItem, totalPrice float64) <-chan domain.OrderSummary {
	captured := make([]domain.CartItem, len(items))
	copy(captured, items)

	done := make(chan domain.OrderSummary, 1)
	time.AfterFunc(b.delay, func() {
		done <- b.BuildSummary(form, captured, totalPrice)
	})
	return done
}

// formatAddress joins the discrete form fields into a single display line,
// skipping whatever the shopper left blank.
func formatAddress(form domain.CheckoutForm) string {
	regional := strings.TrimSpace(fmt.Sprintf("%s %s", strings.TrimSpace(form.State), strings.TrimSpace(form.ZipCode)))

	parts := make([]string, 0, 4)
	for _, part := range []string{form.Address, form.City, regional, form.Country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}
