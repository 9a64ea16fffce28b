// Package workbench owns the signal registry and the plot panes of one session
// and routes each UI frame's interaction reports into drag and pane changes.
package workbench

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jask/plotbench/internal/drag"
	"github.com/jask/plotbench/internal/pane"
	"github.com/jask/plotbench/internal/signal"
)

const (
	DefaultPaneHeight = 300
	DefaultMinHeight  = 100
)

type Options struct {
	DefaultHeight float64
	MinHeight     float64
	Logger        *slog.Logger
}

// Frame is the UI side of one frame. The workbench calls SignalRow for every
// registry entry before it calls Pane for every pane in display order.
type Frame interface {
	// SignalRow renders a registry row. dragging is set on the row whose
	// signal is currently being dragged.
	SignalRow(e signal.Entry, dragging bool) drag.RowReport
	// Pane renders a pane. dragActive is set on every pane while any drag is
	// in progress.
	Pane(v pane.View, dragActive bool) pane.Report
	PointerReleased() bool
	Cancelled() bool
	// Viewport is the height available to a single pane.
	Viewport() float64
}

type EventKind int

const (
	DragStarted EventKind = iota
	Attached
	DropMissed
	DragCancelled
	PaneClosed
	PaneResized
	PaneMoved
)

var eventKindNames = map[EventKind]string{
	DragStarted:   "drag_started",
	Attached:      "attached",
	DropMissed:    "drop_missed",
	DragCancelled: "drag_cancelled",
	PaneClosed:    "pane_closed",
	PaneResized:   "pane_resized",
	PaneMoved:     "pane_moved",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event describes a state change made during a Tick. PaneID is zero for
// events not tied to a pane; SignalIndex is -1 for events not tied to a
// signal.
type Event struct {
	Kind        EventKind
	PaneID      int64
	SignalIndex int
	Height      float64
}

type Workbench struct {
	opts     Options
	log      *slog.Logger
	registry *signal.Registry
	panes    []*pane.Pane
	counter  int64
	drag     drag.Controller
}

func New(reg *signal.Registry, opts Options) *Workbench {
	if reg == nil {
		reg = signal.NewRegistry()
	}
	if opts.DefaultHeight <= 0 {
		opts.DefaultHeight = DefaultPaneHeight
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = DefaultMinHeight
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workbench{opts: opts, log: logger, registry: reg}
}

func (w *Workbench) Registry() *signal.Registry { return w.registry }

func (w *Workbench) Options() Options { return w.opts }

// AddSignal registers a new signal and returns its index.
func (w *Workbench) AddSignal(name, color string, gen signal.Generator) int {
	idx := w.registry.Register(name, color, gen)
	w.log.Info("signal registered", "index", idx, "name", name, "kind", gen.Kind.String())
	return idx
}

// Panes returns the panes in display order.
func (w *Workbench) Panes() []*pane.Pane {
	return slices.Clone(w.panes)
}

func (w *Workbench) Pane(id int64) (*pane.Pane, bool) {
	i := w.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return w.panes[i], true
}

// AddPane appends an empty pane titled from the pane counter. Counter values
// are never reused, so ids stay unique after removals.
func (w *Workbench) AddPane() *pane.Pane {
	w.counter++
	p := pane.New(w.counter, fmt.Sprintf("Plot %d", w.counter), w.opts.DefaultHeight)
	w.panes = append(w.panes, p)
	w.log.Info("pane added", "pane", p.ID)
	return p
}

// AddFloatingPane is AddPane for panes shown as independent windows.
func (w *Workbench) AddFloatingPane(pos pane.Point, size pane.Size) *pane.Pane {
	p := w.AddPane()
	size.H = max(size.H, w.opts.MinHeight)
	p.Floating = &pane.Geometry{Pos: pos, Size: size}
	p.Height = size.H
	return p
}

// RemovePane drops the pane with the given id. Unknown ids are ignored since
// a close event may arrive after the pane is already gone.
func (w *Workbench) RemovePane(id int64) bool {
	i := w.indexOf(id)
	if i < 0 {
		w.log.Debug("remove of unknown pane ignored", "pane", id)
		return false
	}
	w.panes = slices.Delete(w.panes, i, i+1)
	w.log.Info("pane removed", "pane", id)
	return true
}

// Dragging returns the index of the signal being dragged, if any.
func (w *Workbench) Dragging() (int, bool) { return w.drag.Active() }

// CancelDrag resets the drag state outside of a frame, for example when the
// terminal loses focus.
func (w *Workbench) CancelDrag() bool {
	if !w.drag.Cancel() {
		return false
	}
	w.log.Debug("drag cancelled")
	return true
}

// Tick runs one frame: registry rows first, then panes in display order.
// The first pane reporting the pointer inside on a release receives the
// drop. Close requests are applied after every pane has been reported.
func (w *Workbench) Tick(f Frame) []Event {
	var events []Event

	entries := w.registry.List()
	rows := make([]drag.Row, 0, len(entries))
	active, dragging := w.drag.Active()
	for _, e := range entries {
		rep := f.SignalRow(e, dragging && e.Index == active)
		rows = append(rows, drag.Row{Index: e.Index, RowReport: rep})
	}
	if idx, ok := w.drag.BeginFrame(rows); ok {
		w.log.Debug("drag started", "signal", idx)
		events = append(events, Event{Kind: DragStarted, SignalIndex: idx})
	}

	if f.Cancelled() {
		if idx, ok := w.drag.Active(); ok {
			w.drag.Cancel()
			w.log.Debug("drag cancelled", "signal", idx)
			events = append(events, Event{Kind: DragCancelled, SignalIndex: idx})
		}
	}

	_, dragActive := w.drag.Active()
	released := f.PointerReleased()
	viewport := f.Viewport()
	dropped := false
	var closing []int64

	for _, p := range slices.Clone(w.panes) {
		rep := f.Pane(pane.Resolve(p, w.registry), dragActive)

		if dragActive && released && rep.PointerInside && !dropped {
			if a, ok := w.drag.Drop(p, w.registry); ok {
				dropped = true
				w.log.Info("signal attached", "pane", p.ID, "signal", a.SignalIndex, "color", a.Color)
				events = append(events, Event{Kind: Attached, PaneID: p.ID, SignalIndex: a.SignalIndex})
			}
		}

		if rep.ResizeDelta != nil {
			before := p.Height
			h := p.Resize(*rep.ResizeDelta, w.opts.MinHeight, viewport)
			if h != before {
				w.log.Debug("pane resized", "pane", p.ID, "height", h)
				events = append(events, Event{Kind: PaneResized, PaneID: p.ID, SignalIndex: -1, Height: h})
			}
		}

		if p.Place(rep.NewPosition, rep.NewSize, w.opts.MinHeight, viewport) {
			events = append(events, Event{Kind: PaneMoved, PaneID: p.ID, SignalIndex: -1, Height: p.Height})
		}

		if rep.CloseRequested {
			closing = append(closing, p.ID)
		}
	}

	if dragActive && released && !dropped {
		idx, _ := w.drag.Active()
		w.drag.Miss()
		w.log.Debug("drop outside panes", "signal", idx)
		events = append(events, Event{Kind: DropMissed, SignalIndex: idx})
	}

	for _, id := range closing {
		if w.RemovePane(id) {
			events = append(events, Event{Kind: PaneClosed, PaneID: id, SignalIndex: -1})
		}
	}
	return events
}

func (w *Workbench) indexOf(id int64) int {
	return slices.IndexFunc(w.panes, func(p *pane.Pane) bool { return p.ID == id })
}
