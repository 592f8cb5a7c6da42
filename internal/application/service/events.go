package service

import (
	"context"
	"log"
	"sync"

	infraRepo "github.com/dukapos/dukapos-api/internal/infrastructure/repository"
)

// Event kinds published after a business fact has been committed.
const (
	EventOrderCompleted    = "order.completed"
	EventPaymentRecorded   = "payment.recorded"
	EventDocumentGenerated = "document.generated"
	EventRefundCompleted   = "refund.completed"
	EventLowStock          = "stock.low"
	EventShiftClosed       = "shift.closed"
)

// EventHandler reacts to a committed fact. Handlers run after the triggering
// transaction and can never affect its outcome.
type EventHandler func(ctx context.Context, payload interface{})

// EventBus is a post-commit, fire-and-forget notifier. Publish never blocks
// the caller and a panicking subscriber is contained and logged.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for an event kind. Subscriptions happen at
// wiring time, before any Publish.
func (b *EventBus) Subscribe(kind string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Publish dispatches the payload to all subscribers of the kind in a
// detached goroutine. The caller's context deadline does not apply, but its
// store scope does: subscribers load entities through the same store-scoped
// repositories as request code.
func (b *EventBus) Publish(ctx context.Context, kind string, payload interface{}) {
	b.mu.RLock()
	handlers := b.handlers[kind]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	detached := detachScope(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("event handler panic for %s: %v", kind, r)
			}
		}()
		for _, h := range handlers {
			h(detached, payload)
		}
	}()
}

// detachScope carries the caller's store scope onto a fresh context that
// outlives the request. Callers without a store (head office) get the
// skip-scope flag so subscriber lookups still resolve.
func detachScope(ctx context.Context) context.Context {
	detached := context.Background()
	if storeID, ok := infraRepo.GetStoreID(ctx); ok {
		return infraRepo.WithStore(detached, storeID)
	}
	return infraRepo.WithSkipStoreScope(detached, true)
}
