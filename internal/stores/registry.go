package stores

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanagata/storefront/internal/platform/kvstore"
)

var errRegistryPersistenceRequired = errors.New("store registry: persistence is required")

// Registry hands out the per-user CartStore and WishlistStore instances,
// constructing each pair lazily on first use. The same user id always
// receives the same instances until Reset is called for that user.
type Registry struct {
	mu          sync.Mutex
	persistence *kvstore.Persistent
	logger      *zap.Logger
	clock       func() time.Time
	carts       map[string]*CartStore
	wishlists   map[string]*WishlistStore
}

// RegistryDeps wires the shared dependencies handed to every store.
type RegistryDeps struct {
	Persistence *kvstore.Persistent
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewRegistry constructs an empty registry.
func NewRegistry(deps RegistryDeps) (*Registry, error) {
	if deps.Persistence == nil {
		return nil, errRegistryPersistenceRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		persistence: deps.Persistence,
		logger:      logger,
		clock:       clock,
		carts:       map[string]*CartStore{},
		wishlists:   map[string]*WishlistStore{},
	}, nil
}

// Cart returns the cart store for userID, constructing it on first use. The
// empty user id maps to the anonymous scope.
func (r *Registry) Cart(ctx context.Context, userID string) (*CartStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		return cart, nil
	}
	cart, err := NewCartStore(ctx, CartStoreDeps{
		Persistence: r.persistence,
		UserID:      userID,
		Logger:      r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.carts[userID] = cart
	return cart, nil
}

// Wishlist returns the wishlist store for userID, constructing it on first use.
func (r *Registry) Wishlist(ctx context.Context, userID string) (*WishlistStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wl, ok := r.wishlists[userID]; ok {
		return wl, nil
	}
	wl, err := NewWishlistStore(ctx, WishlistStoreDeps{
		Persistence: r.persistence,
		UserID:      userID,
		Logger:      r.logger,
		Clock:       r.clock,
	})
	if err != nil {
		return nil, err
	}
	r.wishlists[userID] = wl
	return wl, nil
}

// Reset drops the cached stores for userID and deletes their persisted state.
// Used on logout or an explicit clear of the user's scope.
func (r *Registry) Reset(ctx context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	delete(r.wishlists, userID)
	r.persistence.Remove(ctx, kvstore.CartKey(userID))
	r.persistence.Remove(ctx, kvstore.WishlistKey(userID))
}
