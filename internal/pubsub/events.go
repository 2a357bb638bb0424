// Package pubsub provides the event plumbing used across recworklist: an
// asynchronous Broker for background producers (logger, file watcher) and a
// synchronous Dispatcher for state changes that must be observed before the
// triggering input returns.
package pubsub

import (
	"context"
	"time"
)

// EventType names what a background producer observed.
type EventType string

const (
	// LoggedEvent carries one formatted log entry.
	LoggedEvent EventType = "logged"
	// ChangedEvent reports files that changed on disk.
	ChangedEvent EventType = "changed"
)

// Event is one delivery from a Broker.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
