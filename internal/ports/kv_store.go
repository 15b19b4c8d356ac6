package ports

import "context"

// KVStore is a durable string key/value backend. Get returns an error wrapping
// domain.ErrKeyNotFound when the key has no value; Delete of a missing key is
// not an error.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
