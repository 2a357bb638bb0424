package worklist

import (
	"recworklist/internal/cyclic"
	"recworklist/internal/log"
)

// RowInfo is the display content of a row. It never affects state.
type RowInfo struct {
	Title       string
	SeriesTitle string
	Episode     string
	State       string // backend job state, e.g. "Recorded", "Waiting"
	Updated     string
	Detail      string
}

// Row is one program in the worklist.
type Row struct {
	ID        string
	SeriesKey string
	Status    cyclic.State
	Info      RowInfo
}

// Selected is derived from Status.
func (r *Row) Selected() bool {
	return IsSelected(r.Status)
}

// DetailVisible is derived from Status.
func (r *Row) DetailVisible() bool {
	return IsDetailVisible(r.Status)
}

// InSeries reports whether the row belongs to a series group.
func (r *Row) InSeries() bool {
	return r.SeriesKey != ""
}

// Store owns the rows of one page load, keyed by row ID and kept in page order.
type Store struct {
	order []string
	rows  map[string]*Row
}

// NewStore copies rows into a store. Rows without an ID and repeated IDs
// are dropped.
func NewStore(rows []Row) *Store {
	s := &Store{
		order: make([]string, 0, len(rows)),
		rows:  make(map[string]*Row, len(rows)),
	}
	for i := range rows {
		r := rows[i]
		if r.ID == "" {
			log.Warn(log.CatRows, "Dropping row without id", "index", i)
			continue
		}
		if _, dup := s.rows[r.ID]; dup {
			log.Warn(log.CatRows, "Dropping duplicate row", "id", r.ID)
			continue
		}
		s.order = append(s.order, r.ID)
		s.rows[r.ID] = &r
	}
	return s
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.order)
}

// Get returns the row with the given ID.
func (s *Store) Get(id string) (*Row, bool) {
	r, ok := s.rows[id]
	return r, ok
}

// At returns the row at page position i.
func (s *Store) At(i int) (*Row, bool) {
	if i < 0 || i >= len(s.order) {
		return nil, false
	}
	return s.rows[s.order[i]], true
}

// Rows returns all rows in page order.
func (s *Store) Rows() []*Row {
	out := make([]*Row, len(s.order))
	for i, id := range s.order {
		out[i] = s.rows[id]
	}
	return out
}

// Group returns every row whose SeriesKey equals key, in page order.
// An empty key has no members.
func (s *Store) Group(key string) []*Row {
	if key == "" {
		return nil
	}
	var out []*Row
	for _, id := range s.order {
		if r := s.rows[id]; r.SeriesKey == key {
			out = append(out, r)
		}
	}
	return out
}

// Selected returns the selected rows in page order.
func (s *Store) Selected() []*Row {
	var out []*Row
	for _, id := range s.order {
		if r := s.rows[id]; r.Selected() {
			out = append(out, r)
		}
	}
	return out
}

// SelectedIDs returns the IDs of the selected rows in page order.
func (s *Store) SelectedIDs() []string {
	var ids []string
	for _, r := range s.Selected() {
		ids = append(ids, r.ID)
	}
	return ids
}

// CountSelected scans every row.
func (s *Store) CountSelected() int {
	n := 0
	for _, id := range s.order {
		if s.rows[id].Selected() {
			n++
		}
	}
	return n
}
