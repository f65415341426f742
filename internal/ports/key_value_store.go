package ports

import "context"

// KeyValueStore is durable slot storage that survives process restarts.
// Get returns domain.ErrKeyNotFound for absent keys; deleting an absent key
// is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
