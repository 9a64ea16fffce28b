package axis

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeTicksMinutesClassification(t *testing.T) {
	ticks := ComputeTicks(Range{Min: 1435, Max: 1505}, Minutes())

	byValue := make(map[float64]float64, len(ticks))
	for _, tk := range ticks {
		byValue[tk.Value] = tk.StepSize
	}
	require.Equal(t, MinutesPerDay, byValue[1440])
	require.Equal(t, MinutesPerHour, byValue[1500])
	require.Equal(t, 5.0, byValue[1445])
	require.Equal(t, 5.0, byValue[1435])
	_, ok := byValue[1441]
	require.False(t, ok, "positions below the 5 minute grid must be dropped")
	require.Len(t, ticks, 15)
}

func TestComputeTicksStaysInsideRoundedRange(t *testing.T) {
	ranges := []Range{
		{Min: 0, Max: 7200},
		{Min: -17.3, Max: 93.9},
		{Min: 1439.5, Max: 1440.5},
		{Min: 2.2, Max: 2.7},
		{Min: 300, Max: -300},
		{Min: -1e5, Max: 1e5},
	}
	for _, h := range []Hierarchy{Minutes(), Decades()} {
		allowed := make(map[float64]bool)
		for _, u := range h.Grid {
			allowed[u.Size] = true
		}
		for _, r := range ranges {
			lo := math.Floor(math.Min(r.Min, r.Max))
			hi := math.Ceil(math.Max(r.Min, r.Max))
			ticks := ComputeTicks(r, h)
			seen := make(map[float64]bool, len(ticks))
			prev := math.Inf(-1)
			for _, tk := range ticks {
				require.GreaterOrEqual(t, tk.Value, lo, "%s %+v", h.Name, r)
				require.LessOrEqual(t, tk.Value, hi, "%s %+v", h.Name, r)
				require.True(t, allowed[tk.StepSize], "unexpected step %v", tk.StepSize)
				require.False(t, seen[tk.Value], "duplicate tick %v", tk.Value)
				require.Greater(t, tk.Value, prev)
				seen[tk.Value] = true
				prev = tk.Value
			}
		}
	}
}

func TestComputeTicksEmptyInputs(t *testing.T) {
	require.Empty(t, ComputeTicks(Range{Min: 1, Max: 4}, Minutes()))
	require.Empty(t, ComputeTicks(Range{Min: 0, Max: 100}, Hierarchy{}))
	require.Empty(t, ComputeTicks(Range{Min: math.NaN(), Max: 1}, Minutes()))
	require.Empty(t, ComputeTicks(Range{Min: 0, Max: math.Inf(1)}, Minutes()))
}

func TestComputeTicksFarFromZero(t *testing.T) {
	done := make(chan []Tick, 1)
	go func() {
		done <- ComputeTicks(Range{Min: 1e17, Max: 1e17}, Minutes())
	}()
	select {
	case ticks := <-done:
		require.Empty(t, ticks)
	case <-time.After(3 * time.Second):
		t.Fatal("ComputeTicks did not return")
	}

	require.Empty(t, ComputeTicks(Range{Min: -1e17, Max: -1e17 + 1}, Decades()))

	ticks := ComputeTicks(Range{Min: 1e15, Max: 1e15 + 10}, Decades())
	require.Equal(t, []Tick{{Value: 1e15, StepSize: 1000}, {Value: 1e15 + 10, StepSize: 10}}, ticks)
}

func TestComputeTicksBudgetDropsFineUnits(t *testing.T) {
	h := Minutes()
	h.MaxTicks = 100
	ticks := ComputeTicks(Range{Min: 0, Max: 3 * MinutesPerDay}, h)
	for _, tk := range ticks {
		require.NotEqual(t, 5.0, tk.StepSize)
	}
	require.Len(t, ticks, 73)

	h.MaxTicks = 2
	require.Empty(t, ComputeTicks(Range{Min: 0, Max: 10 * MinutesPerDay}, h))
}

func TestCoarsenKeepsCoarsestLevels(t *testing.T) {
	ticks := ComputeTicks(Range{Min: 0, Max: 2 * MinutesPerDay}, Minutes())
	require.Greater(t, len(ticks), 500)

	hours := Coarsen(ticks, 60)
	require.Len(t, hours, 49)
	for _, tk := range hours {
		require.GreaterOrEqual(t, tk.StepSize, MinutesPerHour)
	}

	days := Coarsen(ticks, 3)
	require.Equal(t, []Tick{
		{Value: 0, StepSize: MinutesPerDay},
		{Value: 1440, StepSize: MinutesPerDay},
		{Value: 2880, StepSize: MinutesPerDay},
	}, days)

	require.Len(t, Coarsen(ticks, 1), 3)
	require.Equal(t, ticks, Coarsen(ticks, 0))
}

func TestLabelMinutes(t *testing.T) {
	h := Minutes()
	cases := []struct {
		value float64
		want  string
	}{
		{value: 1440, want: "Day 1"},
		{value: 1439.9999995, want: "Day 1"},
		{value: 0, want: "Day 0"},
		{value: 90, want: "1:30"},
		{value: 1500, want: "1:00"},
		{value: 2885, want: "0:05"},
		{value: 89.9999999, want: "1:30"},
		{value: 4 * MinutesPerDay, want: "Day 4"},
		{value: 5 * MinutesPerDay, want: ""},
		{value: -5, want: ""},
		{value: math.NaN(), want: ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Label(h, tc.value), "value %v", tc.value)
	}
}

func TestLabelEmptyOutsideDomain(t *testing.T) {
	hierarchies := []Hierarchy{
		Minutes(),
		Minutes().WithDomain(Range{Min: -60, Max: 60}),
		Decades().WithDomain(Range{Min: 0, Max: 1000}),
	}
	for _, h := range hierarchies {
		for _, v := range []float64{h.Domain.Max, h.Domain.Max + 5, h.Domain.Min - 0.5, h.Domain.Min - 1e6} {
			require.Empty(t, Label(h, v), "%s value %v", h.Name, v)
		}
	}
}

func TestLabelDecades(t *testing.T) {
	h := Decades()
	require.Equal(t, "3k", Label(h, 3000))
	require.Equal(t, "-2k", Label(h, -2000))
	require.Equal(t, "2340", Label(h, 2340))

	huge := Label(h, 1e300)
	require.False(t, strings.HasPrefix(huge, "-"), huge)
	require.True(t, strings.HasSuffix(huge, "k"), huge)
	require.Greater(t, len(huge), 290)
	require.True(t, strings.HasPrefix(Label(h, -1e300), "-"))
	require.Equal(t, "4611686018427387904k", Label(h, 1000*(1<<62)))
}

func TestPercent(t *testing.T) {
	require.Equal(t, "", Percent(0))
	require.Equal(t, "", Percent(1e-10))
	require.Equal(t, "25%", Percent(0.25))
	require.Equal(t, "100%", Percent(0.9999999999))
	require.Equal(t, "", Percent(0.255))
}

func TestCursor(t *testing.T) {
	require.Equal(t, "Day 2, 3:05\n41.20%", Cursor(Minutes(), 2*MinutesPerDay+185, 0.412))
}
