package signal

import (
	"fmt"
	"math"
	"strings"
)

// Kind enumerates the closed set of generator shapes.
type Kind int

const (
	KindStep Kind = iota
	KindSine
	KindCosine
	KindLinear
	KindLogistic
)

var kindNames = map[Kind]string{
	KindStep:     "step",
	KindSine:     "sine",
	KindCosine:   "cosine",
	KindLinear:   "linear",
	KindLogistic: "logistic",
}

// Kinds lists every generator kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindStep, KindSine, KindCosine, KindLinear, KindLogistic}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a kind name (case-insensitive) to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown generator kind %q", s)
}

// Generator is a parameterized closed-form function of x. Only the
// parameters relevant to Kind are read.
type Generator struct {
	Kind      Kind
	Amplitude float64
	// Period of the sine/cosine kinds; 2π when unset.
	Period    float64
	Phase     float64
	Offset    float64
	Slope     float64
	Threshold float64
	Midpoint  float64
	Rate      float64
}

func Step(threshold float64) Generator {
	return Generator{Kind: KindStep, Amplitude: 1, Threshold: threshold}
}

func Sine(amplitude, period float64) Generator {
	return Generator{Kind: KindSine, Amplitude: amplitude, Period: period}
}

func Cosine(amplitude, period float64) Generator {
	return Generator{Kind: KindCosine, Amplitude: amplitude, Period: period}
}

func Linear(slope, offset float64) Generator {
	return Generator{Kind: KindLinear, Slope: slope, Offset: offset}
}

func Logistic(midpoint, rate float64) Generator {
	return Generator{Kind: KindLogistic, Amplitude: 1, Midpoint: midpoint, Rate: rate}
}

// Sample evaluates the generator at x.
func (g Generator) Sample(x float64) float64 {
	switch g.Kind {
	case KindStep:
		if x < g.Threshold {
			return g.Offset - g.Amplitude
		}
		return g.Offset + g.Amplitude
	case KindSine:
		return g.Offset + g.Amplitude*math.Sin(2*math.Pi*x/g.period()+g.Phase)
	case KindCosine:
		return g.Offset + g.Amplitude*math.Cos(2*math.Pi*x/g.period()+g.Phase)
	case KindLinear:
		return g.Offset + g.Slope*x
	case KindLogistic:
		return g.Offset + g.Amplitude/(1+math.Exp(-g.Rate*(x-g.Midpoint)))
	}
	panic(fmt.Sprintf("signal: unknown generator kind %d", int(g.Kind)))
}

func (g Generator) period() float64 {
	if g.Period <= 0 {
		return 2 * math.Pi
	}
	return g.Period
}

type Point struct {
	X float64
	Y float64
}

// Points samples n evenly spaced points over [lo, hi], endpoints included.
func (g Generator) Points(lo, hi float64, n int) []Point {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Point{{X: lo, Y: g.Sample(lo)}}
	}
	step := (hi - lo) / float64(n-1)
	out := make([]Point, n)
	for i := range out {
		x := lo + float64(i)*step
		if i == n-1 {
			x = hi
		}
		out[i] = Point{X: x, Y: g.Sample(x)}
	}
	return out
}
