package selection

import (
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
)

// State is the brush state.
type State int

const (
	// Idle has no region.
	Idle State = iota
	// Brushing is an in-progress drag; the region follows every event.
	Brushing
	// Selected holds the region of a completed drag until cleared.
	Selected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Brushing:
		return "brushing"
	case Selected:
		return "selected"
	default:
		return "unknown"
	}
}

// Change is published after every transition.
type Change struct {
	State      State               `json:"state"`
	Region     *Region             `json:"region"`
	Stats      Stats               `json:"stats"`
	Highlights []scatter.Highlight `json:"highlights"`
}

// Engine owns the brush state for one plot. It is not safe for concurrent
// use; adapters deliver events one at a time, in arrival order.
type Engine struct {
	plot      *scatter.Plot
	current   Change
	observers []func(Change)
}

// NewEngine returns an engine in the Idle state.
func NewEngine(plot *scatter.Plot) *Engine {
	e := &Engine{plot: plot}
	e.current = e.compute(Idle, nil)

	return e
}

// OnChange registers fn to receive every subsequent Change.
func (e *Engine) OnChange(fn func(Change)) {
	e.observers = append(e.observers, fn)
}

// Start begins a drag at region.
func (e *Engine) Start(region Region) Change {
	return e.transition(Brushing, &region)
}

// Drag updates the in-progress region.
func (e *Engine) Drag(region Region) Change {
	return e.transition(Brushing, &region)
}

// End completes a drag. A zero-area region clears the selection.
func (e *Engine) End(region Region) Change {
	if region.Empty() {
		return e.transition(Idle, nil)
	}

	return e.transition(Selected, &region)
}

// Clear drops any selection.
func (e *Engine) Clear() Change {
	return e.transition(Idle, nil)
}

// Current returns the latest Change.
func (e *Engine) Current() Change {
	return e.current
}

// State returns the current brush state.
func (e *Engine) State() State {
	return e.current.State
}

// Plot returns the plot the engine selects over.
func (e *Engine) Plot() *scatter.Plot {
	return e.plot
}

func (e *Engine) transition(state State, region *Region) Change {
	e.current = e.compute(state, region)

	for _, fn := range e.observers {
		fn(e.current)
	}

	return e.current
}

func (e *Engine) compute(state State, region *Region) Change {
	var stored *Region

	if region != nil {
		n := region.Normalize()
		stored = &n
	}

	stats, highlights := ApplyRegion(e.plot, stored)

	return Change{
		State:      state,
		Region:     stored,
		Stats:      stats,
		Highlights: highlights,
	}
}
