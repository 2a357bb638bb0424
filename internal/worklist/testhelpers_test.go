package worklist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingRenderer keeps the last presentation per row.
type recordingRenderer struct {
	last  map[string]Presentation
	calls int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{last: make(map[string]Presentation)}
}

func (r *recordingRenderer) Render(rowID string, p Presentation) {
	r.last[rowID] = p
	r.calls++
}

// collectChanges registers a handler and returns the slice it appends to.
func collectChanges(t *testing.T, c *Controller) *[]RowChanged {
	t.Helper()
	var got []RowChanged
	c.OnChange(func(ev RowChanged) { got = append(got, ev) })
	return &got
}

func seriesFixture() []Source {
	return []Source{
		{ID: "A", SeriesKey: "S1", TrStatus: StatusUncheckedHideDetail, Info: RowInfo{Title: "Episode 1"}},
		{ID: "B", SeriesKey: "S1", Info: RowInfo{Title: "Episode 2"}},
		{ID: "C", SeriesKey: "S1", TrStatus: StatusCheckedHideDetail, Info: RowInfo{Title: "Episode 3"}},
		{ID: "D", Info: RowInfo{Title: "Standalone"}},
		{ID: "E", SeriesKey: "S2", Info: RowInfo{Title: "Other series"}},
	}
}

func requireStatus(t *testing.T, c *Controller, id, want string) {
	t.Helper()
	row, ok := c.Row(id)
	require.True(t, ok, "row %s", id)
	require.Equal(t, want, row.Status.Name(), "row %s", id)
}
