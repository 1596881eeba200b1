package event

import "testing"

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var a, b int
	bus.Subscribe(TransactionsUpdated, func() { a++ })
	bus.Subscribe(TransactionsUpdated, func() { b++ })

	bus.Publish(TransactionsUpdated)
	bus.Publish(TransactionsUpdated)

	if a != 2 || b != 2 {
		t.Errorf("handlers ran %d/%d times, want 2/2", a, b)
	}
}

func TestPublishIsTopicScoped(t *testing.T) {
	bus := NewBus()

	var hits int
	bus.Subscribe(SessionChanged, func() { hits++ })

	bus.Publish(TransactionsUpdated)

	if hits != 0 {
		t.Errorf("handler for another topic ran %d times", hits)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	bus.Publish(TransactionsUpdated) // must not panic
}

func TestSubscribeDuringPublishDoesNotDeadlock(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(SessionChanged, func() {
		bus.Subscribe(TransactionsUpdated, func() {})
	})

	bus.Publish(SessionChanged)
}
