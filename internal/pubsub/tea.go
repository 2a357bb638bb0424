package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener holds a broker subscription open across Bubble Tea update
// cycles. After handling a delivered Event, return Next again to keep
// receiving. A nil Listener yields nil commands.
type Listener[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	ch     <-chan Event[T]
}

// Listen subscribes to broker until Stop is called.
func Listen[T any](broker *Broker[T]) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{ctx: ctx, cancel: cancel, ch: broker.Subscribe(ctx)}
}

// Next waits for one event. The command yields nil once the listener is
// stopped or the broker is closed, which ends the listen loop.
func (l *Listener[T]) Next() tea.Cmd {
	if l == nil {
		return nil
	}
	ctx, ch := l.ctx, l.ch
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			return ev
		}
	}
}

// Stop releases the subscription.
func (l *Listener[T]) Stop() {
	if l != nil {
		l.cancel()
	}
}
