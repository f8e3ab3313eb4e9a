package event

import (
	"context"
	"sync"
)

// Bus publishes audit events. Delivery is at-least-once and decoupled from
// persistence: handlers publish only after a successful save, and a failed
// publish never rolls back the mutation.
type Bus interface {
	Publish(ctx context.Context, evt Event) error
}

// MemoryBus collects published events in memory. It backs tests and
// single-process wiring; safe for concurrent use.
type MemoryBus struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryBus creates an empty in-memory bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

// Publish records the event.
func (b *MemoryBus) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

// Events returns a copy of everything published so far.
func (b *MemoryBus) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}
