package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/plotbench/internal/axis"
	"github.com/jask/plotbench/internal/pane"
	"github.com/jask/plotbench/internal/signal"
)

func TestXLabelsPlaceDayTicks(t *testing.T) {
	s := sampling{min: 0, max: 7200, points: 50}
	h := axis.Minutes()
	chart := newTimeChart(90, 10, s)

	ticks := axis.Coarsen(axis.ComputeTicks(axis.Range{Min: s.min, Max: s.max}, h), 20)
	placed := xLabels(&chart, ticks, h)

	texts := make([]string, 0, len(placed))
	for _, p := range placed {
		texts = append(texts, p.text)
	}
	require.Subset(t, texts, []string{"Day 1", "Day 2", "Day 3", "Day 4"})
	require.NotContains(t, texts, "")

	for i := range placed {
		for j := range placed {
			if i != j {
				require.NotEqual(t, placed[i].x, placed[j].x)
			}
		}
	}

	format := xLabelFormatter(placed, 1)
	require.Equal(t, "Day 2", format(0, float64(2880*60)))
	require.Equal(t, "", format(0, float64(2000*60)))
}

func TestCanPlaceLabelKeepsGap(t *testing.T) {
	placed := []placedLabel{{x: 20, text: "Day 1"}}
	require.False(t, canPlaceLabel(23, 4, placed))
	require.True(t, canPlaceLabel(40, 4, placed))
}

func TestYBounds(t *testing.T) {
	lo, hi := yBounds(0, 0)
	require.Equal(t, -1.0, lo)
	require.Equal(t, 1.0, hi)

	lo, hi = yBounds(-1, 1)
	require.InDelta(t, -1.1, lo, 1e-12)
	require.InDelta(t, 1.1, hi, 1e-12)
}

func TestRenderChartTooSmall(t *testing.T) {
	v := pane.View{ID: 1, Title: "Plot 1"}
	out := renderChart(v, 4, 2, sampling{min: 0, max: 10, points: 5}, axis.Minutes())
	require.Contains(t, out, "too small")
}

func TestRenderChartDrawsSeries(t *testing.T) {
	reg := signal.NewRegistry()
	idx := reg.Register("SineWave", "#89b4fa", signal.Sine(1, 1440))
	p := pane.New(1, "Plot 1", 300)
	p.Attach(pane.Attachment{SignalIndex: idx, Color: "#89b4fa"})

	out := renderChart(pane.Resolve(p, reg), 60, 10, sampling{min: 0, max: 7200, points: 100}, axis.Minutes())
	require.NotEmpty(t, out)
	require.Contains(t, out, "│")
}

func TestYLabelsUsePercentForFractions(t *testing.T) {
	percent := yLabelFormatter(true)
	require.Equal(t, "25%", percent(0, 0.25))
	require.Equal(t, "25%", percent(0, 0.2531))
	require.Equal(t, "-5%", percent(0, -0.05))
	require.Equal(t, "", percent(0, 0.001))

	plain := yLabelFormatter(false)
	require.Equal(t, "0", plain(0, 1e-9))
	require.Equal(t, "0.5", plain(0, 0.5))
}

func TestRenderChartLabelsLogisticInPercent(t *testing.T) {
	reg := signal.NewRegistry()
	idx := reg.Register("Logistic", "#a6e3a1", signal.Logistic(2*axis.MinutesPerDay, 2.5/axis.MinutesPerDay))
	p := pane.New(1, "Plot 1", 300)
	p.Attach(pane.Attachment{SignalIndex: idx, Color: "#a6e3a1"})

	out := renderChart(pane.Resolve(p, reg), 60, 12, sampling{min: 0, max: 7200, points: 100}, axis.Minutes())
	require.Contains(t, out, "%")
}

func TestChartReadout(t *testing.T) {
	v := pane.View{ID: 1}
	s := sampling{min: 0, max: 7200, points: 10}
	text, ok := chartReadout(v, 60, 12, s, axis.Minutes(), 30, 3)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(text, "Day "), text)

	_, ok = chartReadout(v, 60, 12, s, axis.Minutes(), 0, 3)
	require.False(t, ok)
	_, ok = chartReadout(v, 4, 2, s, axis.Minutes(), 1, 1)
	require.False(t, ok)
}

func TestBlendFallsBackOnBadHex(t *testing.T) {
	require.Equal(t, colorAccent, blend(colorAccent, "nope", 0.5))
	require.NotEqual(t, colorAccent, blend(colorAccent, colorBg, 0.5))
}
