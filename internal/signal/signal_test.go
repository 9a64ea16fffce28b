package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	a := r.Register("A", "#ff0000", Step(0))
	b := r.Register("B", "#0000ff", Sine(1, 0))
	require.Equal(t, 0, a)
	require.Equal(t, 1, b)
	require.Equal(t, 2, r.Len())

	got, err := r.Get(b)
	require.NoError(t, err)
	require.Equal(t, "B", got.Name)
	require.Equal(t, "#0000ff", got.Color)

	entries := r.List()
	require.Len(t, entries, 2)
	require.Equal(t, 0, entries[0].Index)
	require.Equal(t, "A", entries[0].Signal.Name)
	require.Equal(t, 1, entries[1].Index)
}

func TestRegistryGetOutOfRange(t *testing.T) {
	r := NewRegistry()
	r.Register("A", "#ff0000", Step(0))
	for _, idx := range []int{-1, 1, 99} {
		_, err := r.Get(idx)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrNotFound))
	}
	require.ErrorIs(t, r.SetColor(5, "#000000"), ErrNotFound)
}

func TestRegistrySetColorKeepsIndex(t *testing.T) {
	r := NewRegistry()
	idx := r.Register("A", "#ff0000", Step(0))
	require.NoError(t, r.SetColor(idx, "#00ff00"))
	got, err := r.Get(idx)
	require.NoError(t, err)
	require.Equal(t, "#00ff00", got.Color)
	require.Equal(t, "A", got.Name)
}

func TestRegistrySearch(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	require.Len(t, r.Search(""), r.Len())

	hits := r.Search("wave")
	require.Len(t, hits, 2)
	require.Equal(t, "SineWave", hits[0].Signal.Name)
	require.Equal(t, "CosineWave", hits[1].Signal.Name)

	hits = r.Search("sinewav3")
	require.NotEmpty(t, hits)
	require.Equal(t, "SineWave", hits[0].Signal.Name)

	require.Empty(t, r.Search("zzzzzzzzzz"))
}

func TestGeneratorSample(t *testing.T) {
	step := Step(0)
	require.Equal(t, -1.0, step.Sample(-0.5))
	require.Equal(t, 1.0, step.Sample(0))

	sine := Sine(1, 0)
	require.InDelta(t, math.Sin(1.3), sine.Sample(1.3), 1e-12)

	daily := Sine(2, 1440)
	require.InDelta(t, 2.0, daily.Sample(360), 1e-9)

	cos := Cosine(1, 4)
	require.InDelta(t, -1.0, cos.Sample(2), 1e-12)

	lin := Linear(2, 1)
	require.Equal(t, 7.0, lin.Sample(3))

	logistic := Logistic(2880, 2.5/1440)
	require.InDelta(t, 0.5, logistic.Sample(2880), 1e-12)
	require.Less(t, logistic.Sample(0), 0.01)
}

func TestGeneratorUnknownKindPanics(t *testing.T) {
	require.Panics(t, func() { Generator{Kind: Kind(42)}.Sample(0) })
}

func TestGeneratorPoints(t *testing.T) {
	pts := Sine(1, 0).Points(-5, 5, 200)
	require.Len(t, pts, 200)
	require.Equal(t, -5.0, pts[0].X)
	require.Equal(t, 5.0, pts[199].X)
	for _, p := range pts {
		require.InDelta(t, math.Sin(p.X), p.Y, 1e-12)
	}
	require.Nil(t, Step(0).Points(0, 1, 0))
	require.Len(t, Step(0).Points(0, 1, 1), 1)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
	got, err := ParseKind(" Sine ")
	require.NoError(t, err)
	require.Equal(t, KindSine, got)
	_, err = ParseKind("square")
	require.Error(t, err)
}
