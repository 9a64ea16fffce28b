// Package signal holds the session's registry of named, colored signal
// generators. Signals are referenced by their registry index, which never
// changes because the registry only grows.
package signal

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrNotFound is returned for an index that does not name a registered signal.
var ErrNotFound = errors.New("signal not found")

// Palette holds the display colors used for built-in and user-added signals.
var Palette = []string{
	"#f38ba8", // red
	"#89b4fa", // blue
	"#a6e3a1", // green
	"#fab387", // peach
	"#cba6f7", // mauve
	"#f9e2af", // yellow
	"#94e2d5", // teal
}

type Signal struct {
	Name      string
	Color     string
	Generator Generator
}

type Entry struct {
	Index  int
	Signal Signal
}

// Registry is an append-only, ordered collection of signals.
type Registry struct {
	signals []Signal
}

func NewRegistry() *Registry { return &Registry{} }

// Register appends a signal and returns its index.
func (r *Registry) Register(name, color string, gen Generator) int {
	r.signals = append(r.signals, Signal{Name: name, Color: color, Generator: gen})
	return len(r.signals) - 1
}

func (r *Registry) Get(index int) (Signal, error) {
	if index < 0 || index >= len(r.signals) {
		return Signal{}, fmt.Errorf("signal %d: %w", index, ErrNotFound)
	}
	return r.signals[index], nil
}

// Clone returns a copy of r that later registrations and color changes do
// not affect.
func (r *Registry) Clone() *Registry {
	return &Registry{signals: slices.Clone(r.signals)}
}

func (r *Registry) Len() int { return len(r.signals) }

// List returns every signal with its index, in registration order.
func (r *Registry) List() []Entry {
	out := make([]Entry, len(r.signals))
	for i, s := range r.signals {
		out[i] = Entry{Index: i, Signal: s}
	}
	return out
}

// SetColor changes the display color future attachments of the signal get.
func (r *Registry) SetColor(index int, color string) error {
	if index < 0 || index >= len(r.signals) {
		return fmt.Errorf("signal %d: %w", index, ErrNotFound)
	}
	r.signals[index].Color = color
	return nil
}

// Search returns the entries whose name contains query or is close to it by
// edit distance, best matches first. An empty query lists everything.
func (r *Registry) Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.List()
	}
	type scored struct {
		entry Entry
		score float64
	}
	var hits []scored
	for i, s := range r.signals {
		name := strings.ToLower(s.Name)
		score := 0.0
		if !strings.Contains(name, q) {
			dist := levenshtein.ComputeDistance(name, q)
			score = float64(dist) / float64(max(len(name), len(q)))
			if score >= 0.4 {
				continue
			}
		}
		hits = append(hits, scored{entry: Entry{Index: i, Signal: s}, score: score})
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		return cmp.Compare(a.score, b.score)
	})
	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

const minutesPerDay = 1440

// RegisterBuiltins adds the demo signals every workbench starts with. Their
// parameters are tuned for an x axis measured in minutes over five days.
func RegisterBuiltins(r *Registry) {
	r.Register("StepFunction", Palette[0], Step(2.5*minutesPerDay))
	r.Register("SineWave", Palette[1], Sine(1, minutesPerDay))
	r.Register("CosineWave", Palette[2], Cosine(1, minutesPerDay))
	r.Register("Ramp", Palette[3], Linear(1.0/(2.5*minutesPerDay), -1))
	r.Register("Logistic", Palette[4], Logistic(2*minutesPerDay, 2.5/minutesPerDay))
}
