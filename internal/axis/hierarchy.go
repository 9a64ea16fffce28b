package axis

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	MinutesPerHour = 60.0
	MinutesPerDay  = 24 * MinutesPerHour
)

// Hierarchy parameterizes tick classification and label formatting for one
// kind of axis.
type Hierarchy struct {
	Name string
	// Grid is the set of units ticks are classified into, coarsest first.
	Grid []Unit
	// CoarseFormat is a printf format with one %d verb used for values that
	// are whole multiples of Grid[0].
	CoarseFormat string
	// Fields decompose the remainder below Grid[0] for composite labels,
	// coarsest first. With no fields the composite label is the plain number.
	Fields    []Unit
	Separator string
	// Domain is where labels are produced; gridlines ignore it.
	Domain   Range
	MaxTicks int
}

// Minutes is an axis measured in minutes: day, hour and 5-minute grid lines,
// "Day N" labels on day boundaries and "h:mm" in between. Labels cover the
// first five days.
func Minutes() Hierarchy {
	return Hierarchy{
		Name: "minutes",
		Grid: []Unit{
			{Name: "day", Size: MinutesPerDay},
			{Name: "hour", Size: MinutesPerHour},
			{Name: "5min", Size: 5},
		},
		CoarseFormat: "Day %d",
		Fields: []Unit{
			{Name: "hour", Size: MinutesPerHour},
			{Name: "minute", Size: 1},
		},
		Separator: ":",
		Domain:    Range{Min: 0, Max: 5 * MinutesPerDay},
		MaxTicks:  DefaultMaxTicks,
	}
}

// Decades is a plain numeric axis with thousand, hundred and ten grid lines.
func Decades() Hierarchy {
	return Hierarchy{
		Name: "decades",
		Grid: []Unit{
			{Name: "thousand", Size: 1000},
			{Name: "hundred", Size: 100},
			{Name: "ten", Size: 10},
		},
		CoarseFormat: "%dk",
		Domain:       Unbounded(),
		MaxTicks:     DefaultMaxTicks,
	}
}

// WithDomain returns a copy of h labelling only values inside d.
func (h Hierarchy) WithDomain(d Range) Hierarchy {
	h.Domain = d
	return h
}

// Coarsest returns the first grid unit, or the zero Unit for an empty grid.
func (h Hierarchy) Coarsest() Unit {
	if len(h.Grid) == 0 {
		return Unit{}
	}
	return h.Grid[0]
}

// budgetedGrid drops fine units whose multiples across span would exceed
// MaxTicks. It returns nil when even the coarsest unit is too dense.
func (h Hierarchy) budgetedGrid(span float64) []Unit {
	grid := h.Grid
	if h.MaxTicks <= 0 {
		return grid
	}
	for len(grid) > 0 {
		finest := grid[len(grid)-1].Size
		if finest > 0 && span/finest+1 <= float64(h.MaxTicks) {
			return grid
		}
		grid = grid[:len(grid)-1]
	}
	return nil
}

// Label formats one axis value. Values outside h.Domain get an empty label
// so that their gridline stays unlabeled.
func Label(h Hierarchy, value float64) string {
	if !finite(value) || !h.Domain.Contains(value) {
		return ""
	}
	coarse := h.Coarsest().Size
	if coarse > 0 && IsMultiple(value, coarse) {
		return fmt.Sprintf(h.CoarseFormat, whole(value/coarse))
	}
	return composite(h, value)
}

func composite(h Hierarchy, value float64) string {
	if len(h.Fields) == 0 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	finest := h.Fields[len(h.Fields)-1].Size
	if n := value / finest; ApproxInteger(n) {
		value = math.Round(n) * finest
	}
	rem := value
	if coarse := h.Coarsest().Size; coarse > 0 {
		rem = euclidMod(value, coarse)
	}

	parts := make([]string, len(h.Fields))
	for i, f := range h.Fields {
		n := math.Floor(rem/f.Size + Tolerance)
		rem = math.Max(0, rem-n*f.Size)
		if i == 0 {
			parts[i] = fmt.Sprintf("%d", whole(n))
			continue
		}
		width := digits(h.Fields[i-1].Size/f.Size - 1)
		parts[i] = fmt.Sprintf("%0*d", width, int64(n))
	}
	return strings.Join(parts, h.Separator)
}

// Percent formats a fraction as a whole percentage. Zero and fractional
// percentages get no label.
func Percent(value float64) string {
	p := 100 * value
	switch {
	case ApproxZero(p):
		return ""
	case ApproxInteger(p):
		return fmt.Sprintf("%.0f%%", p)
	default:
		return ""
	}
}

// Cursor formats the readout for the point under the pointer, for example
// "Day 2, 3:05\n41.20%".
func Cursor(h Hierarchy, x, y float64) string {
	coarse := h.Coarsest().Size
	head := strconv.FormatFloat(x, 'f', 2, 64)
	if coarse > 0 {
		head = fmt.Sprintf(h.CoarseFormat, whole(math.Floor(x/coarse+Tolerance)))
		if len(h.Fields) > 0 {
			head += ", " + composite(h, x)
		}
	}
	return fmt.Sprintf("%s\n%.2f%%", head, 100*y)
}

// whole rounds q to an integer value printable with %d. Counts beyond the
// int64 range are returned as *big.Int.
func whole(q float64) any {
	q = math.Round(q)
	if math.Abs(q) < 1<<62 {
		return int64(q)
	}
	n, _ := big.NewFloat(q).Int(nil)
	return n
}

func euclidMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if m-r < Tolerance*m {
		return 0
	}
	return r
}

func digits(v float64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}
