package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(100 * time.Millisecond):
		require.FailNow(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	subs := []<-chan Event[string]{
		broker.Subscribe(t.Context()),
		broker.Subscribe(t.Context()),
	}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(LoggedEvent, "[INFO] [rows] advanced id=42")

	for _, ch := range subs {
		ev := receive(t, ch)
		require.Equal(t, LoggedEvent, ev.Type)
		require.Equal(t, "[INFO] [rows] advanced id=42", ev.Payload)
		require.False(t, ev.Timestamp.IsZero())
	}
}

func TestBroker_UnsubscribeOnCancel(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 },
		time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_FullSubscriberDrops(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(t.Context())

	done := make(chan struct{})
	go func() {
		for i := 1; i <= 3; i++ {
			broker.Publish(ChangedEvent, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		require.FailNow(t, "Publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
	require.Equal(t, uint64(2), broker.Dropped())
}

func TestBroker_BufferAtLeastOne(t *testing.T) {
	broker := NewBrokerWithBuffer[int](0)
	defer broker.Close()

	ch := broker.Subscribe(t.Context())
	broker.Publish(ChangedEvent, 7)
	require.Equal(t, 7, receive(t, ch).Payload)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(t.Context())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Zero(t, broker.SubscriberCount())

	late := broker.Subscribe(t.Context())
	_, ok = <-late
	require.False(t, ok, "subscribing to a closed broker yields a closed channel")

	require.NotPanics(t, func() { broker.Publish(LoggedEvent, "after close") })
}
