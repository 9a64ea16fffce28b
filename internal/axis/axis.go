// Package axis computes grid marks and labels for plot axes whose values are
// measured in a fixed hierarchy of unit sizes (days/hours/minutes, orders of
// magnitude, ...).
//
// Both stages are pure: ComputeTicks classifies positions of a visible range
// into the coarsest unit they divide, and Label turns one value into text.
package axis

import (
	"cmp"
	"math"
	"slices"
)

// Tolerance is the slack used by every "is this a whole multiple" check.
const Tolerance = 1e-6

// maxExactIndex is the largest grid index whose successor is still a distinct
// float64.
const maxExactIndex = 1 << 53

// DefaultMaxTicks bounds the positions a single ComputeTicks call enumerates.
const DefaultMaxTicks = 10000

type Range struct {
	Min float64
	Max float64
}

// Unbounded is a label domain that accepts every finite value.
func Unbounded() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Contains reports whether v lies in the half-open interval [Min, Max).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v < r.Max
}

func (r Range) Span() float64 {
	return r.Max - r.Min
}

type Unit struct {
	Name string
	Size float64
}

// Tick is one grid position. StepSize is the size of the coarsest unit the
// position is a multiple of.
type Tick struct {
	Value    float64
	StepSize float64
}

// ApproxInteger reports whether v is within Tolerance of a whole number.
func ApproxInteger(v float64) bool {
	return math.Abs(v-math.Round(v)) < Tolerance
}

func ApproxZero(v float64) bool {
	return math.Abs(v) < Tolerance
}

// IsMultiple reports whether v is (within Tolerance) a whole multiple of size.
func IsMultiple(v, size float64) bool {
	if size <= 0 {
		return false
	}
	return ApproxInteger(v / size)
}

// ComputeTicks returns the grid marks covering [floor(r.Min), ceil(r.Max)].
// Each mark carries the coarsest grid unit of h it is a multiple of; positions
// that are not a multiple of any unit are not emitted. Values are ascending
// and unique. Ranges so far from zero that neighbouring grid positions are no
// longer distinct floats produce no ticks.
func ComputeTicks(r Range, h Hierarchy) []Tick {
	if len(h.Grid) == 0 || !finite(r.Min) || !finite(r.Max) {
		return nil
	}
	lo := math.Floor(math.Min(r.Min, r.Max))
	hi := math.Ceil(math.Max(r.Min, r.Max))

	grid := h.budgetedGrid(hi - lo)
	if len(grid) == 0 {
		return nil
	}
	finest := grid[len(grid)-1].Size

	first := math.Ceil(lo/finest - Tolerance)
	last := math.Floor(hi/finest + Tolerance)
	if last < first || math.Abs(first) > maxExactIndex || math.Abs(last) > maxExactIndex {
		return nil
	}
	lastIdx := int64(last)
	ticks := make([]Tick, 0, lastIdx-int64(first)+1)
	for k := int64(first); k <= lastIdx; k++ {
		v := float64(k) * finest
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		for _, u := range grid {
			if IsMultiple(v, u.Size) {
				ticks = append(ticks, Tick{Value: v, StepSize: u.Size})
				break
			}
		}
	}
	return ticks
}

// Coarsen drops the finest granularities from ticks until at most budget
// marks remain. The coarsest granularity present is always kept, so the
// result may still exceed budget when even that level is too dense.
func Coarsen(ticks []Tick, budget int) []Tick {
	if budget <= 0 || len(ticks) <= budget {
		return ticks
	}
	steps := distinctSteps(ticks)
	for len(steps) > 1 {
		minStep := steps[len(steps)-1]
		steps = steps[:len(steps)-1]
		kept := ticks[:0:0]
		for _, t := range ticks {
			if t.StepSize > minStep+Tolerance {
				kept = append(kept, t)
			}
		}
		ticks = kept
		if len(ticks) <= budget {
			break
		}
	}
	return ticks
}

// distinctSteps returns the step sizes present in ticks, largest first.
func distinctSteps(ticks []Tick) []float64 {
	var steps []float64
	for _, t := range ticks {
		seen := false
		for _, s := range steps {
			if math.Abs(s-t.StepSize) < Tolerance {
				seen = true
				break
			}
		}
		if !seen {
			steps = append(steps, t.StepSize)
		}
	}
	slices.SortFunc(steps, func(a, b float64) int { return cmp.Compare(b, a) })
	return steps
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
