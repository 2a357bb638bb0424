package worklist

import "time"

// Target is the part of a row an activation landed on.
type Target int

const (
	TargetRow Target = iota
	TargetCheckbox
	TargetSeries
	TargetLink
)

// Action is what an activation resolves to.
type Action int

const (
	ActionNone Action = iota
	ActionAdvance
	ActionToggle
	ActionSeriesSync
	// ActionDeferAdvance is a single activation on a series cell. It
	// becomes an Advance only if no second activation arrives in time.
	ActionDeferAdvance
)

func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionToggle:
		return "toggle"
	case ActionSeriesSync:
		return "series-sync"
	case ActionDeferAdvance:
		return "defer-advance"
	default:
		return "none"
	}
}

// Gestures resolves raw activations into row actions. Handlers are tried
// in order: series double activation, link, checkbox, row. A consumed
// activation never reaches a later handler, so a double activation on a
// series cell syncs the group without advancing the origin.
type Gestures struct {
	window time.Duration

	lastRow   string
	lastAt    time.Time
	lastToken int
	armed     bool

	// pending maps tokens of deferred single activations still waiting
	// for their window to close to their row.
	pending map[int]string
	token   int
}

// NewGestures returns a dispatcher treating two activations within window
// as a double activation.
func NewGestures(window time.Duration) *Gestures {
	return &Gestures{window: window, pending: make(map[int]string)}
}

// Window returns the double activation window.
func (g *Gestures) Window() time.Duration {
	return g.window
}

// Activate resolves one activation on target of rowID. inSeries reports
// whether the row has a series key; series cells of rows without one
// behave like the row. For ActionDeferAdvance the returned token must be
// passed to Fire once the window has elapsed.
func (g *Gestures) Activate(target Target, rowID string, inSeries bool, now time.Time) (Action, int) {
	if target == TargetSeries && inSeries {
		if g.armed && g.lastRow == rowID && now.Sub(g.lastAt) <= g.window {
			g.armed = false
			delete(g.pending, g.lastToken)
			return ActionSeriesSync, 0
		}
		g.token++
		g.armed = true
		g.lastRow = rowID
		g.lastAt = now
		g.lastToken = g.token
		g.pending[g.token] = rowID
		return ActionDeferAdvance, g.token
	}

	g.armed = false
	switch target {
	case TargetLink:
		return ActionNone, 0
	case TargetCheckbox:
		return ActionToggle, 0
	default:
		return ActionAdvance, 0
	}
}

// Fire reports whether the deferred activation with token is still
// pending, and clears it. A double activation cancels it. Deferred
// activations of different rows fire independently.
func (g *Gestures) Fire(token int) bool {
	if _, ok := g.pending[token]; !ok {
		return false
	}
	delete(g.pending, token)
	return true
}
