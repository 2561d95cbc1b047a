// Package stores owns the mutable shopper state: the cart and the wishlist.
// Each store is scoped to a single user, is the sole writer of its persisted
// key, and runs every mutation to completion (mutate, persist, notify) before
// the next begins.
package stores

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/hanagata/storefront/internal/domain"
	"github.com/hanagata/storefront/internal/platform/kvstore"
)

var (
	errCartPersistenceRequired = errors.New("cart store: persistence is required")
)

// CartSnapshot is the immutable view published to subscribers and returned to
// callers. Totals are computed from the items at snapshot time.
type CartSnapshot struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

// CartStoreDeps wires the persistence and logging dependencies for a cart.
// Cart lines carry no timestamps, so no clock is needed here.
type CartStoreDeps struct {
	Persistence *kvstore.Persistent
	UserID      string
	Logger      *zap.Logger
}

// CartStore owns the ordered cart line items for one user. All mutating
// operations persist synchronously before returning and notify subscribers
// with the new snapshot.
type CartStore struct {
	mu          sync.Mutex
	items       []domain.CartItem
	persistence *kvstore.Persistent
	key         string
	logger      *zap.Logger

	subMu  sync.Mutex
	subs   map[int]func(CartSnapshot)
	nextID int
}

// NewCartStore constructs a CartStore scoped to deps.UserID, loading any
// previously persisted items. Missing or corrupt persisted data yields an
// empty cart.
func NewCartStore(ctx context.Context, deps CartStoreDeps) (*CartStore, error) {
	if deps.Persistence == nil {
		return nil, errCartPersistenceRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &CartStore{
		items:       []domain.CartItem{},
		persistence: deps.Persistence,
		key:         kvstore.CartKey(deps.UserID),
		logger:      logger.With(zap.String("store", "cart"), zap.String("key", kvstore.CartKey(deps.UserID))),
		subs:        map[int]func(CartSnapshot){},
	}

	s.persistence.LoadJSON(ctx, s.key, &s.items)
	s.items = normaliseCartItems(s.items)
	return s, nil
}

// AddItem appends product as a new line with the given quantity, or increments
// the existing line's quantity when the product id is already present. A
// non-positive quantity is clamped so the resulting line is always at least 1.
func (s *CartStore) AddItem(ctx context.Context, product domain.Product, quantity int) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := indexOfCartItem(s.items, product.ID); idx >= 0 {
		next := s.items[idx].Quantity + quantity
		if next < 1 {
			next = 1
		}
		s.items[idx].Quantity = next
	} else {
		if quantity < 1 {
			quantity = 1
		}
		s.items = append(s.items, domain.CartItem{
			ID:        product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Thumbnail: product.Thumbnail,
			Quantity:  quantity,
		})
	}

	return s.commitLocked(ctx)
}

// RemoveItem deletes the matching line. Removing an absent id is a no-op, not
// an error; double-clicks from the UI are expected.
func (s *CartStore) RemoveItem(ctx context.Context, productID int) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfCartItem(s.items, productID)
	if idx < 0 {
		return s.snapshotLocked()
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return s.commitLocked(ctx)
}

// UpdateQuantity sets the line's quantity directly. A quantity of zero or less
// removes the line; an unknown id is silently ignored.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int, quantity int) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfCartItem(s.items, productID)
	if idx < 0 {
		return s.snapshotLocked()
	}
	if quantity <= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	} else {
		s.items[idx].Quantity = quantity
	}
	return s.commitLocked(ctx)
}

// Clear empties the cart and persists the empty state.
func (s *CartStore) Clear(ctx context.Context) CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartItem{}
	return s.commitLocked(ctx)
}

// Items returns a defensive copy of the lines in insertion order.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCartItems(s.items)
}

// TotalItems returns the sum of line quantities, recomputed on every call.
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// TotalPrice returns the sum of price x quantity across lines, recomputed on
// every call so it can never drift from the item list.
func (s *CartStore) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Snapshot returns the current immutable view of the cart.
func (s *CartStore) Snapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive the snapshot produced by each mutation.
// The returned function removes the subscription. fn runs synchronously on
// the mutating goroutine with the store lock held: it must not call back
// into the store, and the snapshot carries everything it needs.
func (s *CartStore) Subscribe(fn func(CartSnapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// commitLocked persists the current items and notifies subscribers. The
// caller must hold s.mu. Persistence failures are logged inside SaveJSON and
// never surface here.
func (s *CartStore) commitLocked(ctx context.Context) CartSnapshot {
	s.persistence.SaveJSON(ctx, s.key, s.items)
	snap := s.snapshotLocked()
	s.logger.Debug("cart committed",
		zap.Int("lines", len(snap.Items)),
		zap.Int("total_items", snap.TotalItems),
		zap.Float64("total_price", snap.TotalPrice))
	s.notify(snap)
	return snap
}

func (s *CartStore) snapshotLocked() CartSnapshot {
	return CartSnapshot{
		Items:      cloneCartItems(s.items),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
}

func (s *CartStore) notify(snap CartSnapshot) {
	s.subMu.Lock()
	fns := make([]func(CartSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func indexOfCartItem(items []domain.CartItem, productID int) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func cloneCartItems(items []domain.CartItem) []domain.CartItem {
	dup := make([]domain.CartItem, len(items))
	copy(dup, items)
	return dup
}

func totalItems(items []domain.CartItem) int {
	var total int
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func totalPrice(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// normaliseCartItems drops malformed persisted lines so a tampered payload
// cannot break the quantity and uniqueness invariants.
func normaliseCartItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.Quantity < 1 || item.Price < 0 || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
