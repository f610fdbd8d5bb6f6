package charsheet

import (
	"context"
	"errors"
	"sync"
)

var errHostClosed = errors.New("charsheet: host handle closed")

// hostHandle is a host capability acquired on first use, shared for the
// owner's lifetime and released exactly once by close. A failed
// acquisition is retried on the next get.
type hostHandle[T any] struct {
	acquire func(ctx context.Context) (T, error)
	release func(T) error

	mu       sync.Mutex
	value    T
	acquired bool
	closed   bool
}

func newHostHandle[T any](acquire func(context.Context) (T, error), release func(T) error) *hostHandle[T] {
	return &hostHandle[T]{acquire: acquire, release: release}
}

func (h *hostHandle[T]) get(ctx context.Context) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero T
	if h.closed {
		return zero, errHostClosed
	}
	if h.acquired {
		return h.value, nil
	}
	v, err := h.acquire(ctx)
	if err != nil {
		return zero, err
	}
	h.value, h.acquired = v, true
	return v, nil
}

// close releases the handle if it was ever acquired. Later calls are no-ops.
func (h *hostHandle[T]) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	if !h.acquired || h.release == nil {
		return nil
	}
	return h.release(h.value)
}
