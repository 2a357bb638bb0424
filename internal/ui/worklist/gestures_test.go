package worklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func TestGestures_RowAndCheckboxAreImmediate(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	action, token := g.Activate(TargetRow, "A", true, t0)
	require.Equal(t, ActionAdvance, action)
	require.Zero(t, token)

	action, _ = g.Activate(TargetCheckbox, "A", true, t0)
	require.Equal(t, ActionToggle, action)
}

func TestGestures_LinkIsSwallowed(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	action, _ := g.Activate(TargetLink, "A", true, t0)
	require.Equal(t, ActionNone, action)
}

func TestGestures_SeriesDoubleConsumesBothActivations(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	first, token := g.Activate(TargetSeries, "A", true, t0)
	require.Equal(t, ActionDeferAdvance, first)
	require.NotZero(t, token)

	second, _ := g.Activate(TargetSeries, "A", true, t0.Add(150*time.Millisecond))
	require.Equal(t, ActionSeriesSync, second)

	require.False(t, g.Fire(token), "the single activation must not advance after a double")
}

func TestGestures_SeriesSingleFiresAfterWindow(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	action, token := g.Activate(TargetSeries, "A", true, t0)
	require.Equal(t, ActionDeferAdvance, action)

	require.True(t, g.Fire(token))
	require.False(t, g.Fire(token), "fires once")
}

func TestGestures_SlowSecondActivationIsNotDouble(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	_, first := g.Activate(TargetSeries, "A", true, t0)
	action, second := g.Activate(TargetSeries, "A", true, t0.Add(time.Second))

	require.Equal(t, ActionDeferAdvance, action)
	require.True(t, g.Fire(first))
	require.True(t, g.Fire(second))
}

func TestGestures_DifferentRowsAreNotDouble(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	g.Activate(TargetSeries, "A", true, t0)
	action, _ := g.Activate(TargetSeries, "B", true, t0.Add(10*time.Millisecond))

	require.Equal(t, ActionDeferAdvance, action)
}

func TestGestures_PendingActivationsAreKeptPerRow(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	_, tokenA := g.Activate(TargetSeries, "A", true, t0)
	_, tokenB := g.Activate(TargetSeries, "B", true, t0.Add(100*time.Millisecond))
	require.NotEqual(t, tokenA, tokenB)

	require.True(t, g.Fire(tokenA), "a click on another series cell must not drop A's advance")
	require.True(t, g.Fire(tokenB))
}

func TestGestures_DoubleCancelsOnlyItsOwnRow(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	_, tokenA := g.Activate(TargetSeries, "A", true, t0)
	_, tokenB := g.Activate(TargetSeries, "B", true, t0.Add(50*time.Millisecond))
	action, _ := g.Activate(TargetSeries, "B", true, t0.Add(100*time.Millisecond))
	require.Equal(t, ActionSeriesSync, action)

	require.True(t, g.Fire(tokenA))
	require.False(t, g.Fire(tokenB))
}

func TestGestures_OtherActivationDisarms(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	g.Activate(TargetSeries, "A", true, t0)
	g.Activate(TargetRow, "B", false, t0.Add(10*time.Millisecond))
	action, _ := g.Activate(TargetSeries, "A", true, t0.Add(20*time.Millisecond))

	require.Equal(t, ActionDeferAdvance, action)
}

func TestGestures_SeriesCellWithoutSeriesActsAsRow(t *testing.T) {
	g := NewGestures(400 * time.Millisecond)

	action, _ := g.Activate(TargetSeries, "D", false, t0)
	require.Equal(t, ActionAdvance, action)
	action, _ = g.Activate(TargetSeries, "D", false, t0.Add(10*time.Millisecond))
	require.Equal(t, ActionAdvance, action)
}

func TestGestures_FireZeroToken(t *testing.T) {
	require.False(t, NewGestures(time.Second).Fire(0))
}

func TestAction_String(t *testing.T) {
	require.Equal(t, "series-sync", ActionSeriesSync.String())
	require.Equal(t, "none", Action(99).String())
}
