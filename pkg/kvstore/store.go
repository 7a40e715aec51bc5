// Package kvstore provides single-key persistent slots. A slot holds one opaque
// payload per key; callers that need structure serialize it themselves.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when nothing has been written under the key.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrQuotaExceeded is returned by Set when the payload exceeds the slot budget.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrUnavailable wraps backend failures (network, disk, closed client).
	ErrUnavailable = errors.New("kvstore: storage unavailable")
)

// Store is a persistent key-value slot.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Quota rejects writes larger than maxBytes before they reach the backend.
type Quota struct {
	next     Store
	maxBytes int
}

// WithQuota wraps next. A non-positive maxBytes disables the check.
func WithQuota(next Store, maxBytes int) Store {
	if maxBytes <= 0 {
		return next
	}
	return &Quota{next: next, maxBytes: maxBytes}
}

func (q *Quota) Get(ctx context.Context, key string) ([]byte, error) {
	return q.next.Get(ctx, key)
}

func (q *Quota) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > q.maxBytes {
		return fmt.Errorf("%w: %d bytes over a %d byte budget", ErrQuotaExceeded, len(value), q.maxBytes)
	}
	return q.next.Set(ctx, key, value)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
