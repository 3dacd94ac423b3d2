// Package kv provides the key-value persistence collaborator used by the
// study stores. Values are JSON strings under fixed namespace keys.
package kv

import "context"

//go:generate mockgen -source=kv.go -destination=../mocks/kv/mock_store.go -package=mock_kv

// Store is a string key-value store with at-most-one value per key.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes or replaces the value for key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
