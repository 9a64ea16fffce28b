package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/plotbench/internal/drag"
	"github.com/jask/plotbench/internal/pane"
	"github.com/jask/plotbench/internal/signal"
)

// frame turns one input message into the per-row and per-pane reports the
// workbench asks for. Mouse input is hit-tested against the zones of the last
// rendered view; keyboard input names its targets directly.
type frame struct {
	hits  hitTester
	mouse *tea.MouseMsg

	visibleRows  map[int]bool
	visiblePanes map[int64]bool

	grab     int
	dropOn   int64
	release  bool
	closeID  int64
	resize   map[int64]float64
	cancel   bool
	viewport float64

	hoverRow  int
	hoverPane int64
}

func newFrame(hits hitTester, viewport float64) *frame {
	return &frame{hits: hits, grab: -1, hoverRow: -1, viewport: viewport}
}

func (f *frame) pressed() bool {
	return f.mouse != nil && f.mouse.Action == tea.MouseActionPress && f.mouse.Button == tea.MouseButtonLeft
}

func (f *frame) over(id string) bool {
	return f.mouse != nil && f.hits != nil && f.hits.hit(id, *f.mouse)
}

func (f *frame) SignalRow(e signal.Entry, dragging bool) drag.RowReport {
	var rep drag.RowReport
	if f.grab == e.Index {
		rep.DragStarted = true
	}
	if f.visibleRows[e.Index] && f.over(signalZone(e.Index)) {
		rep.Hovered = true
		if f.hoverRow < 0 {
			f.hoverRow = e.Index
		}
		if f.pressed() && !dragging {
			rep.DragStarted = true
		}
	}
	return rep
}

func (f *frame) Pane(v pane.View, dragActive bool) pane.Report {
	var rep pane.Report
	if f.dropOn != 0 && f.dropOn == v.ID {
		rep.PointerInside = true
	}
	if f.visiblePanes[v.ID] {
		if f.over(paneZone(v.ID)) {
			rep.PointerInside = true
			if f.hoverPane == 0 {
				f.hoverPane = v.ID
			}
		}
		if f.pressed() && !dragActive && f.over(closeZone(v.ID)) {
			rep.CloseRequested = true
		}
	}
	if f.closeID != 0 && f.closeID == v.ID {
		rep.CloseRequested = true
	}
	if d, ok := f.resize[v.ID]; ok {
		rep.ResizeDelta = &d
	}
	return rep
}

func (f *frame) PointerReleased() bool {
	if f.release {
		return true
	}
	return f.mouse != nil && f.mouse.Action == tea.MouseActionRelease
}

func (f *frame) Cancelled() bool { return f.cancel }

func (f *frame) Viewport() float64 { return f.viewport }
