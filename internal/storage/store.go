package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("key not found")
)

// Key names used for per-client state
const (
	KeyToken     = "token"
	KeyUserRole  = "user_role"
	KeyTheme     = "theme"
	KeyCart      = "abk_cart"
	KeyFavorites = "favorites"
)

// Store is a key-value durable store holding client state.
// Get returns ErrNotFound when the key has never been written or was deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Load decodes the JSON value stored under key into a T.
// A missing key, an unavailable backend or a value that fails to decode all yield def:
// client state is a cache, never the source of truth.
func Load[T any](ctx context.Context, s Store, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}

	return v
}

// Save encodes v as JSON and writes it under key before returning
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}
