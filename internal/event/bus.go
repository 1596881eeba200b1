// Package event is a minimal fire-and-forget signal bus for view
// coordination. There is no shared cache layer, so a write simply
// broadcasts a topic and interested views refetch.
package event

import "sync"

// Topics used across the console.
const (
	TransactionsUpdated = "transactions:updated"
	SessionChanged      = "session:changed"
)

// Bus fans a topic out to its subscribers. Publish never blocks and
// carries no payload; subscribers refetch whatever they render.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]func()
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]func())}
}

// Subscribe registers fn for a topic. Handlers run synchronously on the
// publishing goroutine and must be fast; slow work belongs behind a
// channel owned by the subscriber.
func (b *Bus) Subscribe(topic string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], fn)
}

// Publish invokes every handler registered for the topic.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	handlers := make([]func(), len(b.subs[topic]))
	copy(handlers, b.subs[topic])
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}
