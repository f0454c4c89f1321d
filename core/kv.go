package core

import (
	"context"
	"errors"
)

// Durable local key-value slots shared by the session manager and the
// presentation layer.
const (
	KeyAuthState = "authState" // persisted session identity
	KeyTheme     = "theme"     // UI theme preference: "light"|"dark"
)

// ErrKeyNotFound is returned by KVStore.Get when a slot is empty.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a durable local key-value slot store. Implementations live in
// storage/kv.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error // no-op if the slot is empty
}
