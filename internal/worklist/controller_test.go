package worklist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewController_HydratesAndRenders(t *testing.T) {
	renderer := newRecordingRenderer()
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", renderer)

	require.Equal(t, 5, c.Len())
	requireStatus(t, c, "B", StatusUncheckedHideDetail)
	requireStatus(t, c, "C", StatusCheckedHideDetail)
	require.Equal(t, Presentation{Checked: true}, renderer.last["C"])
	require.Equal(t, 5, renderer.calls, "initial render per row")
}

func TestNewController_NoNotificationsOnLoad(t *testing.T) {
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", nil)
	events := collectChanges(t, c)
	require.Empty(t, *events)
}

func TestController_DropsDuplicatesAndBlankIDs(t *testing.T) {
	c := NewController(NewStatuses(), []Source{
		{ID: "1", Info: RowInfo{Title: "first"}},
		{ID: ""},
		{ID: "1", Info: RowInfo{Title: "dup"}},
		{ID: "2"},
	}, "Worklist", nil)

	require.Equal(t, 2, c.Len())
	row, _ := c.Row("1")
	require.Equal(t, "first", row.Info.Title)
}

func TestController_UnknownRowIDs(t *testing.T) {
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", nil)

	require.False(t, c.Advance("zzz"))
	require.False(t, c.SetChecked("zzz", true))
	require.False(t, c.ToggleChecked("zzz"))
}

func TestController_ToggleChecked(t *testing.T) {
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", nil)

	require.True(t, c.ToggleChecked("D"))
	requireStatus(t, c, "D", StatusCheckedHideDetail)

	c.Advance("D")
	requireStatus(t, c, "D", StatusCheckedShowDetail)

	require.True(t, c.ToggleChecked("D"))
	requireStatus(t, c, "D", StatusUncheckedHideDetail)
}

func TestController_SelectedIDsInPageOrder(t *testing.T) {
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", nil)

	c.Advance("E")
	c.Advance("A")

	require.Equal(t, []string{"A", "C", "E"}, c.SelectedIDs())
}

func TestController_ClearSelection(t *testing.T) {
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", nil)
	c.SyncSeries("A")

	require.Equal(t, 3, c.ClearSelection())
	require.Empty(t, c.SelectedIDs())
	require.Equal(t, "Worklist", c.Title())
}

func TestController_CounterRunsBeforeOtherListeners(t *testing.T) {
	c := NewController(NewStatuses(), seriesFixture(), "Worklist", nil)

	var seen []int
	c.OnChange(func(RowChanged) { seen = append(seen, c.SelectedCount()) })

	c.Advance("D")
	require.Equal(t, []int{2}, seen)
}

func TestStore_GroupAndAt(t *testing.T) {
	s := NewStatuses()
	store := NewStore([]Row{
		{ID: "1", SeriesKey: "S", Status: s.UncheckedHidden},
		{ID: "2", Status: s.UncheckedHidden},
		{ID: "3", SeriesKey: "S", Status: s.UncheckedHidden},
	})

	require.Nil(t, store.Group(""))
	group := store.Group("S")
	require.Len(t, group, 2)
	require.Equal(t, "1", group[0].ID)
	require.Equal(t, "3", group[1].ID)

	r, ok := store.At(1)
	require.True(t, ok)
	require.Equal(t, "2", r.ID)
	_, ok = store.At(3)
	require.False(t, ok)
	_, ok = store.At(-1)
	require.False(t, ok)
}
