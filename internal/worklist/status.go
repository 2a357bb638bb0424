// Package worklist holds the row selection state machine of the recorder
// worklist: per-row tri-state status, series group synchronization and the
// selected-row counter.
package worklist

import (
	"recworklist/internal/cyclic"
	"recworklist/internal/log"
)

// Status names as they appear in the page's data-tr-status attribute.
const (
	StatusUncheckedHideDetail = "UNCHECKED_HIDE_DETAIL"
	StatusCheckedHideDetail   = "CHECKED_HIDE_DETAIL"
	StatusCheckedShowDetail   = "CHECKED_SHOW_DETAIL"
)

// Statuses is the row status set, in cycling order.
type Statuses struct {
	enum *cyclic.Enum

	UncheckedHidden   cyclic.State
	CheckedHidden     cyclic.State
	CheckedShowDetail cyclic.State
}

// NewStatuses builds the status set. Build it once at the composition root
// and share it.
func NewStatuses() *Statuses {
	e := cyclic.MustNew(
		StatusUncheckedHideDetail,
		StatusCheckedHideDetail,
		StatusCheckedShowDetail,
	)
	return &Statuses{
		enum:              e,
		UncheckedHidden:   e.Get(StatusUncheckedHideDetail),
		CheckedHidden:     e.Get(StatusCheckedHideDetail),
		CheckedShowDetail: e.Get(StatusCheckedShowDetail),
	}
}

// Parse resolves a persisted status name. Missing or unknown names resolve
// to UncheckedHidden.
func (s *Statuses) Parse(name string) cyclic.State {
	st, ok := s.enum.Lookup(name)
	if !ok {
		if name != "" {
			log.Debug(log.CatRows, "Unknown row status, using default", "status", name, "default", s.enum.First().Name())
		}
		return s.enum.First()
	}
	return st
}

// normalize maps any state, including the zero State or one from another
// enum, onto this set by name.
func (s *Statuses) normalize(st cyclic.State) cyclic.State {
	return s.enum.Get(st.Name())
}

// All returns the statuses in cycling order.
func (s *Statuses) All() []cyclic.State {
	return s.enum.States()
}

// IsSelected reports whether a row in status st counts as selected.
func IsSelected(st cyclic.State) bool {
	return st.Valid() && st.Name() != StatusUncheckedHideDetail
}

// IsDetailVisible reports whether a row in status st shows its detail.
func IsDetailVisible(st cyclic.State) bool {
	return st.Name() == StatusCheckedShowDetail
}
