package worklist

import "recworklist/internal/log"

// SeriesSync applies one status to every row of a series group.
type SeriesSync struct {
	store   *Store
	machine *Machine
}

// NewSeriesSync creates a synchronizer over store.
func NewSeriesSync(store *Store, machine *Machine) *SeriesSync {
	return &SeriesSync{store: store, machine: machine}
}

// Sync computes the target as two steps past the origin row's own status
// and applies it to every row sharing the origin's series key, origin
// included. It returns the number of rows updated. Rows without a series key
// are not synchronized.
func (s *SeriesSync) Sync(originID string) int {
	origin, ok := s.store.Get(originID)
	if !ok || !origin.InSeries() {
		return 0
	}

	target := s.machine.statuses.normalize(origin.Status).Next().Next()
	group := s.store.Group(origin.SeriesKey)
	for _, row := range group {
		s.machine.Apply(row, target)
	}

	log.Info(log.CatSeries, "Series status applied", "series", origin.SeriesKey, "origin", originID, "status", target.Name(), "rows", len(group))
	return len(group)
}
