package pubsub

import "sync"

// Handler receives a payload synchronously.
type Handler[T any] func(payload T)

// Dispatcher delivers every payload to every registered handler, in
// registration order, before Emit returns. Nothing is dropped or buffered.
//
// Handlers run on the emitting goroutine. A handler may call Emit again;
// the nested payload is delivered in full before the outer delivery resumes.
type Dispatcher[T any] struct {
	mu       sync.RWMutex
	handlers []handlerEntry[T]
	nextID   int
}

type handlerEntry[T any] struct {
	id int
	fn Handler[T]
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{}
}

// On registers fn and returns a function that unregisters it.
func (d *Dispatcher[T]) On(fn Handler[T]) (off func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.handlers = append(d.handlers, handlerEntry[T]{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, h := range d.handlers {
			if h.id == id {
				d.handlers = append(d.handlers[:i:i], d.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every handler with payload.
func (d *Dispatcher[T]) Emit(payload T) {
	d.mu.RLock()
	handlers := make([]handlerEntry[T], len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	for _, h := range handlers {
		h.fn(payload)
	}
}

// HandlerCount returns the number of registered handlers.
func (d *Dispatcher[T]) HandlerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}
