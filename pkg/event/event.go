// Package event provides a small synchronous event dispatcher. Services fire
// order lifecycle events on a Bus; listeners must not block.
package event

import (
	"sync"
)

// Well-known event names.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	TipRecorded        = "tip.recorded"
	SalesReset         = "sales.reset"
)

// Handler is a function that receives an event payload.
type Handler func(payload any)

// Bus holds listeners by event name. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Bus { return &Bus{} }

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string][]Handler{}
	}
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
// A nil Bus drops the event.
func (b *Bus) Fire(event string, payload any) {
	for _, h := range b.listeners(event) {
		h(payload)
	}
}

func (b *Bus) listeners(event string) []Handler {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}
