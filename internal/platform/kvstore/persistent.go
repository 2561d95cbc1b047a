package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

var errPersistentStoreRequired = errors.New("kvstore: backing store is required")

// Persistent layers JSON encoding over a Store with the error posture the
// commerce stores rely on: loads never fail the caller, and a failed write
// never prevents the in-memory state from updating.
type Persistent struct {
	store  Store
	logger *zap.Logger
}

// NewPersistent wraps store. A nil logger falls back to a no-op logger.
func NewPersistent(store Store, logger *zap.Logger) (*Persistent, error) {
	if store == nil {
		return nil, errPersistentStoreRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persistent{store: store, logger: logger}, nil
}

// LoadJSON decodes the stored value for key into dest. On a missing entry or
// malformed payload it leaves dest at its caller-supplied default and logs a
// warning; it never returns an error.
func (p *Persistent) LoadJSON(ctx context.Context, key string, dest any) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.Warn("persisted state unreadable, using default",
			zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		p.logger.Warn("persisted state corrupt, using default",
			zap.String("key", key), zap.Error(err))
	}
}

// SaveJSON serializes value under key. Serialization or write failures are
// logged and swallowed; the in-memory state stays authoritative for the
// session.
func (p *Persistent) SaveJSON(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("failed to serialize state", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.store.Put(ctx, key, raw); err != nil {
		p.logger.Error("failed to persist state", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes the entry for key, logging failures without propagating.
func (p *Persistent) Remove(ctx context.Context, key string) {
	if err := p.store.Delete(ctx, key); err != nil {
		p.logger.Error("failed to remove persisted state", zap.String("key", key), zap.Error(err))
	}
}
