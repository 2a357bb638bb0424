package worklist

import (
	"recworklist/internal/log"
	"recworklist/internal/pubsub"
)

// Source is one row as read from the worklist page, before hydration.
type Source struct {
	ID        string
	SeriesKey string
	TrStatus  string
	Info      RowInfo
}

// Controller owns one page load: the row store, the state machine, the
// series synchronizer and the selection counter. Handlers address rows by ID.
type Controller struct {
	statuses *Statuses
	store    *Store
	machine  *Machine
	series   *SeriesSync
	counter  *Counter
	changes  *pubsub.Dispatcher[RowChanged]
}

// NewController hydrates sources into rows, renders their initial state and
// wires the counter to row changes. title is the label the selection badge
// is applied to.
func NewController(statuses *Statuses, sources []Source, title string, renderer Renderer) *Controller {
	rows := make([]Row, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, Row{
			ID:        src.ID,
			SeriesKey: src.SeriesKey,
			Status:    statuses.Parse(src.TrStatus),
			Info:      src.Info,
		})
	}

	changes := pubsub.NewDispatcher[RowChanged]()
	store := NewStore(rows)
	machine := NewMachine(statuses, renderer, changes)

	for _, r := range store.Rows() {
		machine.Sync(r)
	}

	counter := NewCounter(store, title)
	changes.On(counter.Handle)

	log.Info(log.CatRows, "Worklist loaded", "rows", store.Len(), "selected", counter.Count())

	return &Controller{
		statuses: statuses,
		store:    store,
		machine:  machine,
		series:   NewSeriesSync(store, machine),
		counter:  counter,
		changes:  changes,
	}
}

// OnChange registers fn for every row change, after the counter has
// recounted.
func (c *Controller) OnChange(fn func(RowChanged)) (off func()) {
	return c.changes.On(fn)
}

// OnTitle registers fn to receive the badged title after every recount.
func (c *Controller) OnTitle(fn func(title string, count int)) {
	c.counter.OnUpdate(fn)
}

// Statuses returns the status set rows are drawn from.
func (c *Controller) Statuses() *Statuses { return c.statuses }

// Store returns the row store.
func (c *Controller) Store() *Store { return c.store }

// Len returns the number of rows.
func (c *Controller) Len() int { return c.store.Len() }

// Row returns the row with the given ID.
func (c *Controller) Row(id string) (*Row, bool) { return c.store.Get(id) }

// Rows returns all rows in page order.
func (c *Controller) Rows() []*Row { return c.store.Rows() }

// Advance handles a primary activation of the row.
func (c *Controller) Advance(id string) bool {
	row, ok := c.store.Get(id)
	if !ok {
		return false
	}
	c.machine.Advance(row)
	return true
}

// SetChecked handles a direct toggle of the row's checkbox.
func (c *Controller) SetChecked(id string, checked bool) bool {
	row, ok := c.store.Get(id)
	if !ok {
		return false
	}
	c.machine.SetChecked(row, checked)
	return true
}

// ToggleChecked flips the row's checkbox.
func (c *Controller) ToggleChecked(id string) bool {
	row, ok := c.store.Get(id)
	if !ok {
		return false
	}
	c.machine.SetChecked(row, !row.Selected())
	return true
}

// SyncSeries handles a double activation on the row's series cell and
// returns the number of rows updated.
func (c *Controller) SyncSeries(id string) int {
	return c.series.Sync(id)
}

// ClearSelection force-resets every selected row.
func (c *Controller) ClearSelection() int {
	selected := c.store.Selected()
	for _, r := range selected {
		c.machine.ForceReset(r)
	}
	return len(selected)
}

// SelectedIDs returns the IDs of the selected rows in page order.
func (c *Controller) SelectedIDs() []string {
	return c.store.SelectedIDs()
}

// SelectedCount returns the number of selected rows.
func (c *Controller) SelectedCount() int {
	return c.counter.Count()
}

// Title returns the badged title label.
func (c *Controller) Title() string {
	return c.counter.Title()
}
