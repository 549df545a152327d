// Package kv holds the tab-scoped key-value layer that session state is
// persisted to. A scope is one tab session; keys inside it are plain strings.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent in the scope.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string key-value store partitioned by scope.
type Store interface {
	Get(ctx context.Context, scope, key string) (string, error)
	Set(ctx context.Context, scope, key, value string) error
	// Delete removes the given keys; absent keys are ignored.
	Delete(ctx context.Context, scope string, keys ...string) error
	// Keys lists the keys present in scope, sorted.
	Keys(ctx context.Context, scope string) ([]string, error)
}
