// Package cache implements the durable key/value store that keeps entities
// usable while the device is offline. Values are opaque to the store; the
// sync layer serializes entities to JSON before writing them.
package cache

import "context"

// Store describes the local cache contract.
//
// Contract:
//   - Get returns common.ErrNotFound when the key is absent.
//   - Replace atomically removes oldKey and writes value under newKey.
//   - ListKeys enumerates entity keys only; the reserved credential key is
//     excluded.
//   - Credential/SetCredential access the reserved key holding the auth token.
//
// All methods must honor context cancellation/timeouts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Replace(ctx context.Context, oldKey, newKey string, value []byte) error
	ListKeys(ctx context.Context) ([]string, error)
	Credential(ctx context.Context) (string, error)
	SetCredential(ctx context.Context, token string) error
}
