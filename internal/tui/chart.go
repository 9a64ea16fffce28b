package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/plotbench/internal/axis"
	"github.com/jask/plotbench/internal/pane"
)

const (
	minChartWidth  = 16
	minChartHeight = 4
	xLabelGap      = 2
)

// sampling is the x domain, in minutes, and point count for pane charts.
type sampling struct {
	min    float64
	max    float64
	points int
}

// minuteTime maps an x value in minutes onto the chart's time axis.
func minuteTime(m float64) time.Time {
	return time.Unix(int64(math.Round(m*60)), 0).UTC()
}

func timeMinutes(v float64) float64 { return v / 60 }

func datasetName(l pane.Line) string { return fmt.Sprintf("%d:%s", l.Position, l.Name) }

// renderChart draws every resolved line of v as a braille series with the
// hierarchy's gridlines and labels on the x axis.
func renderChart(v pane.View, width, height int, s sampling, h axis.Hierarchy) string {
	if width < minChartWidth || height < minChartHeight {
		return mutedStyle.Render("(too small)")
	}
	chart, series := chartFrame(v, width, height, s)

	ticks := axis.ComputeTicks(axis.Range{Min: s.min, Max: s.max}, h)
	cols := max(1, chart.Width()-chart.Origin().X-1)
	ticks = axis.Coarsen(ticks, cols/xLabelGap)
	halfCol := (s.max - s.min) / float64(cols) / 2
	chart.Model.XLabelFormatter = xLabelFormatter(xLabels(&chart, ticks, h), halfCol)

	for i, l := range v.Lines {
		name := datasetName(l)
		chart.SetDataSetStyle(name, lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color)))
		for _, p := range series[i] {
			chart.PushDataSet(name, tslc.TimePoint{Time: minuteTime(p.x), Value: p.y})
		}
	}
	chart.DrawBrailleAll()
	drawGridlines(&chart, ticks, h)
	return chart.View()
}

// chartFrame samples the lines of v and sizes the chart's y axis to them.
func chartFrame(v pane.View, width, height int, s sampling) (tslc.Model, [][]pointT) {
	chart := newTimeChart(width, height, s)

	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([][]pointT, len(v.Lines))
	for i, l := range v.Lines {
		for _, p := range l.Generator.Points(s.min, s.max, s.points) {
			if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
				continue
			}
			series[i] = append(series[i], pointT{x: p.X, y: p.Y})
			lo, hi = min(lo, p.Y), max(hi, p.Y)
		}
	}
	fraction := lo >= 0 && hi <= 1 && hi > lo
	lo, hi = yBounds(lo, hi)
	chart.SetYRange(lo, hi)
	chart.SetViewYRange(lo, hi)
	chart.Model.YLabelFormatter = yLabelFormatter(fraction)
	return chart, series
}

// chartReadout returns the cursor label for the cell at col, row of a chart
// rendered by renderChart with the same arguments. It reports false when the
// cell is outside the plotting area.
func chartReadout(v pane.View, width, height int, s sampling, h axis.Hierarchy, col, row int) (string, bool) {
	if width < minChartWidth || height < minChartHeight {
		return "", false
	}
	chart, _ := chartFrame(v, width, height, s)
	origin := chart.Origin()
	gw, gh := chart.GraphWidth(), chart.GraphHeight()
	left, top := origin.X+1, origin.Y-gh
	if gw <= 0 || gh <= 0 || col < left || col >= left+gw || row < top || row >= origin.Y {
		return "", false
	}
	x := s.min + float64(col-left)/float64(max(1, gw-1))*(s.max-s.min)
	y := chart.ViewMaxY() - float64(row-top)/float64(max(1, gh-1))*(chart.ViewMaxY()-chart.ViewMinY())
	return axis.Cursor(h, x, y), true
}

func newTimeChart(width, height int, s sampling) tslc.Model {
	chart := tslc.New(width, height)
	chart.SetXStep(1)
	chart.SetYStep(2)
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorSurface1)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	start, end := minuteTime(s.min), minuteTime(s.max)
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	return chart
}

type pointT struct{ x, y float64 }

func yBounds(lo, hi float64) (float64, float64) {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return -1, 1
	}
	if hi-lo < axis.Tolerance {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// yLabelFormatter labels the y axis. Series that stay within [0, 1] are
// labelled in whole percent.
func yLabelFormatter(fraction bool) linechart.LabelFormatter {
	return func(_ int, v float64) string {
		if fraction {
			return axis.Percent(math.Round(v*100) / 100)
		}
		if axis.ApproxZero(v) {
			return "0"
		}
		return fmt.Sprintf("%.2g", v)
	}
}

type placedLabel struct {
	x     int
	value float64
	text  string
}

// xLabels places tick labels on chart columns, coarse ticks first, keeping a
// minimum gap between neighbouring labels.
func xLabels(chart *tslc.Model, ticks []axis.Tick, h axis.Hierarchy) []placedLabel {
	ordered := slices.Clone(ticks)
	slices.SortStableFunc(ordered, func(a, b axis.Tick) int {
		return cmp.Compare(b.StepSize, a.StepSize)
	})
	var placed []placedLabel
	for _, t := range ordered {
		label := axis.Label(h, t.Value)
		if label == "" {
			continue
		}
		x := chartColumnX(chart, t.Value)
		if x <= chart.Origin().X || x >= chart.Width() {
			continue
		}
		if !canPlaceLabel(x, ansi.StringWidth(label), placed) {
			continue
		}
		placed = append(placed, placedLabel{x: x, value: t.Value, text: label})
	}
	return placed
}

func canPlaceLabel(x, width int, placed []placedLabel) bool {
	for _, p := range placed {
		gap := (width+ansi.StringWidth(p.text))/2 + xLabelGap
		if abs(p.x-x) < gap {
			return false
		}
	}
	return true
}

// xLabelFormatter is called with the time value of each x step; it returns
// the label of the placed tick that falls within half a column of it.
func xLabelFormatter(placed []placedLabel, halfCol float64) linechart.LabelFormatter {
	return func(_ int, v float64) string {
		m := timeMinutes(v)
		for _, p := range placed {
			if math.Abs(p.value-m) <= halfCol {
				return p.text
			}
		}
		return ""
	}
}

func drawGridlines(chart *tslc.Model, ticks []axis.Tick, h axis.Hierarchy) {
	origin := chart.Origin()
	topY := origin.Y - chart.GraphHeight()
	bottomY := origin.Y - 1
	if topY < 0 || bottomY < 0 || len(ticks) == 0 {
		return
	}
	coarse := h.Coarsest().Size
	minorStyle := lipgloss.NewStyle().Foreground(colorSurface0)
	majorStyle := lipgloss.NewStyle().Foreground(colorBorder)
	columns := make(map[int]bool)
	for _, t := range ticks {
		x := chartColumnX(chart, t.Value)
		if x <= origin.X || x >= chart.Width() {
			continue
		}
		columns[x] = columns[x] || t.StepSize == coarse
	}
	for x, major := range columns {
		style := minorStyle
		if major {
			style = majorStyle
		}
		for y := topY; y <= bottomY; y++ {
			p := canvas.Point{X: x, Y: y}
			if chart.Canvas.Cell(p).Rune != 0 {
				continue
			}
			chart.Canvas.SetRuneWithStyle(p, '│', style)
		}
	}
}

func chartColumnX(chart *tslc.Model, minutes float64) int {
	point := canvas.Float64Point{X: float64(minuteTime(minutes).Unix()), Y: chart.ViewMinY()}
	scaled := chart.ScaleFloat64Point(point)
	p := canvas.CanvasPointFromFloat64Point(chart.Origin(), scaled)
	if chart.YStep() > 0 {
		p.X++
	}
	return p.X
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
