// Package notify holds the transient, auto-expiring notification queue
// that gives the user feedback after actions ("Saved", "request failed").
package notify

import (
	"sync"
	"time"

	"github.com/nextlevel/nl-console-go/internal/infra/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Notification is one transient message. IDs are UUIDs so two
// notifications created in the same instant never collide.
type Notification struct {
	ID      string
	Message string
	Kind    string
	at      time.Time
}

// Store is a thread-safe notification queue. Each entry self-destructs
// TTL after creation; removal is independent per notification, and
// display order is insertion order.
type Store struct {
	mu      sync.Mutex
	items   []Notification
	ttl     time.Duration
	now     func() time.Time
	metrics *observability.Metrics
	logger  *zap.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithClock injects the time source, for simulated-clock tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a notification store with the given TTL.
func NewStore(ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		ttl:     ttl,
		now:     time.Now,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify enqueues a notification and schedules its removal after the
// TTL. It returns the assigned id for explicit dismissal.
func (s *Store) Notify(message, kind string) string {
	switch kind {
	case KindSuccess, KindError, KindInfo:
	default:
		kind = KindInfo
	}

	n := Notification{
		ID:      uuid.NewString(),
		Message: message,
		Kind:    kind,
		at:      s.now(),
	}

	s.mu.Lock()
	s.items = append(s.items, n)
	s.mu.Unlock()

	s.metrics.IncrNotification(kind)
	s.logger.Debug("notification", zap.String("kind", kind), zap.String("message", message))

	time.AfterFunc(s.ttl, func() { s.Dismiss(n.ID) })
	return n.ID
}

// Dismiss removes a notification immediately (user-triggered or expiry).
// Dismissing an unknown id is a no-op.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Active returns the unexpired notifications in insertion order. Expiry
// is checked against the injected clock so a simulated time advance
// hides entries even before their AfterFunc timer fires.
func (s *Store) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		if now.Sub(n.at) < s.ttl {
			out = append(out, n)
		}
	}
	return out
}
