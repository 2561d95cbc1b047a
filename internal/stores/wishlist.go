package stores

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanagata/storefront/internal/domain"
	"github.com/hanagata/storefront/internal/platform/kvstore"
)

var errWishlistPersistenceRequired = errors.New("wishlist store: persistence is required")

// WishlistSnapshot is the immutable view published to subscribers.
type WishlistSnapshot struct {
	Items []domain.WishlistItem `json:"items"`
}

// WishlistStoreDeps wires the dependencies for a wishlist.
type WishlistStoreDeps struct {
	Persistence *kvstore.Persistent
	UserID      string
	Logger      *zap.Logger
	Clock       func() time.Time
}

// WishlistStore owns the saved-for-later set for one user, keyed by product
// id. It is independent of the cart; toggling semantics are composed by the
// caller from Add and Remove.
type WishlistStore struct {
	mu          sync.Mutex
	items       []domain.WishlistItem
	persistence *kvstore.Persistent
	key         string
	logger      *zap.Logger
	now         func() time.Time

	subMu  sync.Mutex
	subs   map[int]func(WishlistSnapshot)
	nextID int
}

// NewWishlistStore constructs a WishlistStore scoped to deps.UserID, loading
// any previously persisted items.
func NewWishlistStore(ctx context.Context, deps WishlistStoreDeps) (*WishlistStore, error) {
	if deps.Persistence == nil {
		return nil, errWishlistPersistenceRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &WishlistStore{
		items:       []domain.WishlistItem{},
		persistence: deps.Persistence,
		key:         kvstore.WishlistKey(deps.UserID),
		logger:      logger.With(zap.String("store", "wishlist"), zap.String("key", kvstore.WishlistKey(deps.UserID))),
		now:         func() time.Time { return clock().UTC() },
		subs:        map[int]func(WishlistSnapshot){},
	}

	s.persistence.LoadJSON(ctx, s.key, &s.items)
	s.items = dedupeWishlistItems(s.items)
	return s, nil
}

// Add inserts product into the wishlist with AddedAt set to now. Adding a
// product already present is a no-op; the original AddedAt is preserved.
func (s *WishlistStore) Add(ctx context.Context, product domain.Product) WishlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOfWishlistItem(s.items, product.ID) >= 0 {
		return s.snapshotLocked()
	}
	s.items = append(s.items, domain.WishlistItem{
		ID:        product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Thumbnail: product.Thumbnail,
		AddedAt:   s.now(),
	})
	return s.commitLocked(ctx)
}

// Remove deletes the entry for productID; removing an absent id is a no-op.
func (s *WishlistStore) Remove(ctx context.Context, productID int) WishlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfWishlistItem(s.items, productID)
	if idx < 0 {
		return s.snapshotLocked()
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return s.commitLocked(ctx)
}

// Contains reports whether productID is currently wishlisted.
func (s *WishlistStore) Contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOfWishlistItem(s.items, productID) >= 0
}

// Clear empties the wishlist and persists the empty state.
func (s *WishlistStore) Clear(ctx context.Context) WishlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.WishlistItem{}
	return s.commitLocked(ctx)
}

// Items returns a defensive copy of the wishlist entries in insertion order.
func (s *WishlistStore) Items() []domain.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWishlistItems(s.items)
}

// Snapshot returns the current immutable view of the wishlist.
func (s *WishlistStore) Snapshot() WishlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive the snapshot produced by each mutation.
// The returned function removes the subscription. fn runs synchronously on
// the mutating goroutine with the store lock held: it must not call back
// into the store, and the snapshot carries everything it needs.
func (s *WishlistStore) Subscribe(fn func(WishlistSnapshot)) func() {
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

func (s *WishlistStore) commitLocked(ctx context.Context) WishlistSnapshot {
	s.persistence.SaveJSON(ctx, s.key, s.items)
	snap := s.snapshotLocked()
	s.logger.Debug("wishlist committed", zap.Int("items", len(snap.Items)))
	s.notify(snap)
	return snap
}

func (s *WishlistStore) snapshotLocked() WishlistSnapshot {
	return WishlistSnapshot{Items: cloneWishlistItems(s.items)}
}

func (s *WishlistStore) notify(snap WishlistSnapshot) {
	s.subMu.Lock()
	fns := make([]func(WishlistSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func indexOfWishlistItem(items []domain.WishlistItem, productID int) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func cloneWishlistItems(items []domain.WishlistItem) []domain.WishlistItem {
	dup := make([]domain.WishlistItem, len(items))
	copy(dup, items)
	return dup
}

func dedupeWishlistItems(items []domain.WishlistItem) []domain.WishlistItem {
	out := make([]domain.WishlistItem, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
