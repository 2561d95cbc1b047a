// Package kvstore provides the scoped persistent key/value layer backing the
// cart and wishlist stores. Values are opaque byte payloads; the Persistent
// wrapper layers JSON encoding and the never-fail load contract on top.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrStoreClosed indicates an operation was attempted after Close.
var ErrStoreClosed = errors.New("kvstore: store is closed")

// Store is the minimal persistence contract. Implementations are safe for
// concurrent use within a single process; cross-process writers race with
// last-write-wins semantics.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	cartKeyPrefix     = "cart_items"
	wishlistKeyPrefix = "wishlist_items"
)

// CartKey derives the per-user cart storage key. An empty user id maps to the
// fixed anonymous key so guest sessions persist too.
func CartKey(userID string) string {
	return scopedKey(cartKeyPrefix, userID)
}

// WishlistKey derives the per-user wishlist storage key.
func WishlistKey(userID string) string {
	return scopedKey(wishlistKeyPrefix, userID)
}

func scopedKey(prefix, userID string) string {
	if userID == "" {
		return prefix
	}
	return fmt.Sprintf("%s_user_%s", prefix, userID)
}
