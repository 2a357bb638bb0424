package api

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when a gated action is already in flight.
var ErrBusy = errors.New("api: request already in flight")

// Gate allows one in-flight request per submit control. The holder must
// call Release when the request completes, whatever the outcome.
type Gate struct {
	name string
	held atomic.Bool
}

// NewGate creates a gate for the named control.
func NewGate(name string) *Gate {
	return &Gate{name: name}
}

// TryAcquire takes the gate. It returns ErrBusy when the gate is held.
func (g *Gate) TryAcquire() error {
	if !g.held.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

// Release frees the gate. Releasing a free gate is a no-op.
func (g *Gate) Release() {
	g.held.Store(false)
}

// Busy reports whether a request holds the gate.
func (g *Gate) Busy() bool {
	return g.held.Load()
}

// Name returns the control name.
func (g *Gate) Name() string {
	return g.name
}
