// Package pane models the plot panes of a workbench: title, geometry and the
// ordered list of signals attached to each pane.
package pane

import (
	"slices"

	"github.com/jask/plotbench/internal/signal"
)

type Point struct {
	X float64
	Y float64
}

type Size struct {
	W float64
	H float64
}

// Geometry is the position and size of a pane shown as a floating window.
type Geometry struct {
	Pos  Point
	Size Size
}

// Attachment binds a registry signal to a pane. Color is captured when the
// signal is attached and does not follow later registry color changes.
type Attachment struct {
	SignalIndex int
	Color       string
}

type Pane struct {
	ID     int64
	Title  string
	Height float64
	// Floating is nil for panes laid out in the stacked list.
	Floating    *Geometry
	Attachments []Attachment
}

func New(id int64, title string, height float64) *Pane {
	return &Pane{ID: id, Title: title, Height: height}
}

// Clone returns a deep copy of p.
func (p *Pane) Clone() *Pane {
	c := *p
	c.Attachments = slices.Clone(p.Attachments)
	if p.Floating != nil {
		g := *p.Floating
		c.Floating = &g
	}
	return &c
}

// Attach appends a to the attachment list. The same signal may be attached
// more than once.
func (p *Pane) Attach(a Attachment) {
	p.Attachments = append(p.Attachments, a)
}

// Detach removes the attachment at position pos. It reports false when pos is
// out of range.
func (p *Pane) Detach(pos int) bool {
	if pos < 0 || pos >= len(p.Attachments) {
		return false
	}
	p.Attachments = append(p.Attachments[:pos], p.Attachments[pos+1:]...)
	return true
}

// Resize grows the pane by delta, keeping the height at least minHeight and
// at most viewport. When the viewport is smaller than minHeight the viewport
// wins.
func (p *Pane) Resize(delta, minHeight, viewport float64) float64 {
	h := clampHeight(p.Height+delta, minHeight, viewport)
	p.Height = h
	if p.Floating != nil {
		p.Floating.Size.H = h
	}
	return h
}

func clampHeight(h, minHeight, viewport float64) float64 {
	h = max(h, minHeight)
	if viewport > 0 {
		h = min(h, viewport)
	}
	return h
}

// Place moves and resizes a floating pane. Stacked panes ignore it. The
// reported height is clamped like Resize. It reports whether the geometry
// changed.
func (p *Pane) Place(pos *Point, size *Size, minHeight, viewport float64) bool {
	if p.Floating == nil || (pos == nil && size == nil) {
		return false
	}
	before := *p.Floating
	if pos != nil {
		p.Floating.Pos = *pos
	}
	if size != nil {
		s := *size
		s.H = clampHeight(s.H, minHeight, viewport)
		s.W = max(s.W, 0)
		p.Floating.Size = s
		p.Height = s.H
	}
	return *p.Floating != before
}

// Report is what the UI layer returns after rendering one pane.
type Report struct {
	PointerInside  bool
	ResizeDelta    *float64
	CloseRequested bool
	NewPosition    *Point
	NewSize        *Size
}

// Lookup resolves registry indexes.
type Lookup interface {
	Get(index int) (signal.Signal, error)
}

// Line is an attachment resolved against the registry, ready to draw.
type Line struct {
	Position  int
	Name      string
	Color     string
	Generator signal.Generator
}

// View is a read-only snapshot of a pane handed to the renderer.
type View struct {
	ID       int64
	Title    string
	Height   float64
	Floating *Geometry
	Lines    []Line
	// Skipped counts attachments whose signal could not be resolved.
	Skipped int
}

// Resolve builds the render view of p. Attachments pointing at unknown
// signals are skipped instead of failing the whole pane.
func Resolve(p *Pane, lookup Lookup) View {
	v := View{ID: p.ID, Title: p.Title, Height: p.Height}
	if p.Floating != nil {
		g := *p.Floating
		v.Floating = &g
	}
	v.Lines = make([]Line, 0, len(p.Attachments))
	for i, a := range p.Attachments {
		sig, err := lookup.Get(a.SignalIndex)
		if err != nil {
			v.Skipped++
			continue
		}
		v.Lines = append(v.Lines, Line{Position: i, Name: sig.Name, Color: a.Color, Generator: sig.Generator})
	}
	return v
}
