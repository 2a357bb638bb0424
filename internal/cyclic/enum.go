// Package cyclic provides an immutable, ordered set of named states with a
// wraparound successor.
package cyclic

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when an enum is constructed without names.
	ErrEmpty = errors.New("cyclic: at least one state name is required")

	// ErrDuplicate is returned when a state name appears more than once.
	ErrDuplicate = errors.New("cyclic: duplicate state name")
)

// Enum is an ordered set of states fixed at construction.
type Enum struct {
	names  []string
	states []State
	byName map[string]int
}

// State is one member of an Enum. The zero State is not a member of any enum.
type State struct {
	enum  *Enum
	index int
}

// New builds an enum from an ordered list of unique, non-empty names.
func New(names ...string) (*Enum, error) {
	if len(names) == 0 {
		return nil, ErrEmpty
	}

	e := &Enum{
		names:  make([]string, len(names)),
		states: make([]State, len(names)),
		byName: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("cyclic: state %d has an empty name", i)
		}
		if _, dup := e.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, name)
		}
		e.byName[name] = i
		e.names[i] = name
		e.states[i] = State{enum: e, index: i}
	}
	return e, nil
}

// MustNew is New for package-level and composition-root construction.
func MustNew(names ...string) *Enum {
	e, err := New(names...)
	if err != nil {
		panic(err)
	}
	return e
}

// Get returns the state called name, or the first state when name is
// absent or unrecognized.
func (e *Enum) Get(name string) State {
	if s, ok := e.Lookup(name); ok {
		return s
	}
	return e.states[0]
}

// Lookup returns the state called name and whether it exists.
func (e *Enum) Lookup(name string) (State, bool) {
	i, ok := e.byName[name]
	if !ok {
		return State{}, false
	}
	return e.states[i], true
}

// First returns the state at index 0.
func (e *Enum) First() State {
	return e.states[0]
}

// Len returns the number of states.
func (e *Enum) Len() int {
	return len(e.states)
}

// States returns the states in order. The returned slice is a copy.
func (e *Enum) States() []State {
	out := make([]State, len(e.states))
	copy(out, e.states)
	return out
}

// Next returns the state after s, wrapping from the last state to the first.
func (s State) Next() State {
	if s.enum == nil {
		return s
	}
	return s.enum.states[(s.index+1)%len(s.enum.states)]
}

// Name returns the serialized form of the state.
func (s State) Name() string {
	if s.enum == nil {
		return ""
	}
	return s.enum.names[s.index]
}

// Index returns the position of the state within its enum.
func (s State) Index() int {
	return s.index
}

// Valid reports whether s belongs to an enum.
func (s State) Valid() bool {
	return s.enum != nil
}

// Equal reports whether s and o are the same member of the same enum.
func (s State) Equal(o State) bool {
	return s.enum == o.enum && s.index == o.index
}

// String implements fmt.Stringer.
func (s State) String() string {
	return s.Name()
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.Name()), nil
}
