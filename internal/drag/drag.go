// Package drag tracks the signal being dragged from the registry and turns a
// release over a pane into an attachment.
package drag

import (
	"fmt"

	"github.com/jask/plotbench/internal/pane"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RowReport is what the UI layer returns after rendering one registry row.
type RowReport struct {
	DragStarted bool
	Hovered     bool
}

// Row pairs a row report with the registry index it was rendered for.
type Row struct {
	Index int
	RowReport
}

// Controller is the Idle/Dragging state machine. The zero value is Idle.
type Controller struct {
	state  State
	signal int
}

func (c *Controller) State() State { return c.state }

// Active returns the dragged signal index while a drag is in progress.
func (c *Controller) Active() (int, bool) {
	if c.state != Dragging {
		return 0, false
	}
	return c.signal, true
}

// BeginFrame consumes one frame of row reports. The first row reporting a
// drag start wins; later rows in the same frame are ignored. A drag started
// in a later frame replaces the active one.
func (c *Controller) BeginFrame(rows []Row) (int, bool) {
	for _, r := range rows {
		if !r.DragStarted {
			continue
		}
		c.state = Dragging
		c.signal = r.Index
		return r.Index, true
	}
	return 0, false
}

// Drop attaches the dragged signal to target, using the signal's current
// registry color, and returns to Idle. It reports false when no drag is
// active. A dragged index the registry does not know is a programming error.
func (c *Controller) Drop(target *pane.Pane, lookup pane.Lookup) (pane.Attachment, bool) {
	idx, ok := c.Active()
	if !ok {
		return pane.Attachment{}, false
	}
	sig, err := lookup.Get(idx)
	if err != nil {
		panic(fmt.Sprintf("drag: dropped signal is not registered: %v", err))
	}
	a := pane.Attachment{SignalIndex: idx, Color: sig.Color}
	target.Attach(a)
	c.reset()
	return a, true
}

// Miss ends a drag released outside every pane. It reports whether a drag
// was active.
func (c *Controller) Miss() bool { return c.Cancel() }

// Cancel returns to Idle without attaching anything. It reports whether a
// drag was active.
func (c *Controller) Cancel() bool {
	_, ok := c.Active()
	c.reset()
	return ok
}

func (c *Controller) reset() {
	c.state = Idle
	c.signal = 0
}
