package worklist

import (
	"recworklist/internal/cyclic"
	"recworklist/internal/log"
	"recworklist/internal/pubsub"
)

// Presentation is what a renderer shows for a row.
type Presentation struct {
	Checked       bool
	DetailVisible bool
}

// PresentationOf derives the presentation from a status.
func PresentationOf(st cyclic.State) Presentation {
	return Presentation{
		Checked:       IsSelected(st),
		DetailVisible: IsDetailVisible(st),
	}
}

// Renderer receives presentation updates. It is a view of the store, never
// its source of truth.
type Renderer interface {
	Render(rowID string, p Presentation)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(rowID string, p Presentation)

// Render implements Renderer.
func (f RendererFunc) Render(rowID string, p Presentation) { f(rowID, p) }

// RowChanged is emitted after every Apply.
type RowChanged struct {
	RowID         string
	Status        string
	Checked       bool
	DetailVisible bool
}

// Machine is the per-row state machine. Apply is the only way a row's
// status changes.
type Machine struct {
	statuses *Statuses
	renderer Renderer
	changes  *pubsub.Dispatcher[RowChanged]
}

// NewMachine creates a machine. renderer may be nil.
func NewMachine(statuses *Statuses, renderer Renderer, changes *pubsub.Dispatcher[RowChanged]) *Machine {
	if changes == nil {
		changes = pubsub.NewDispatcher[RowChanged]()
	}
	return &Machine{
		statuses: statuses,
		renderer: renderer,
		changes:  changes,
	}
}

// Changes returns the dispatcher RowChanged events are emitted on.
func (m *Machine) Changes() *pubsub.Dispatcher[RowChanged] {
	return m.changes
}

// Apply sets the row's status, renders it and emits RowChanged. It notifies
// even when the checked value is unchanged, since detail visibility may
// differ.
func (m *Machine) Apply(row *Row, state cyclic.State) {
	state = m.statuses.normalize(state)
	prev := row.Status
	row.Status = state

	p := m.render(row)

	log.Debug(log.CatRows, "Row status applied", "row", row.ID, "from", prev.Name(), "to", state.Name())

	m.changes.Emit(RowChanged{
		RowID:         row.ID,
		Status:        state.Name(),
		Checked:       p.Checked,
		DetailVisible: p.DetailVisible,
	})
}

// Advance moves the row one step forward in the cycle.
func (m *Machine) Advance(row *Row) {
	m.Apply(row, m.statuses.normalize(row.Status).Next())
}

// ForceReset returns the row to UncheckedHidden regardless of its detail
// flag.
func (m *Machine) ForceReset(row *Row) {
	m.Apply(row, m.statuses.UncheckedHidden)
}

// SetChecked handles a direct checkbox toggle. Unchecking force-resets the
// row; checking an unselected row selects it without showing detail.
// Checking an already selected row keeps its status.
func (m *Machine) SetChecked(row *Row, checked bool) {
	switch {
	case !checked:
		m.ForceReset(row)
	case !row.Selected():
		m.Apply(row, m.statuses.CheckedHidden)
	default:
		m.Apply(row, row.Status)
	}
}

// Sync renders the row without emitting a change. Used after a load.
func (m *Machine) Sync(row *Row) {
	row.Status = m.statuses.normalize(row.Status)
	m.render(row)
}

func (m *Machine) render(row *Row) Presentation {
	p := PresentationOf(row.Status)
	if m.renderer != nil {
		m.renderer.Render(row.ID, p)
	}
	return p
}
