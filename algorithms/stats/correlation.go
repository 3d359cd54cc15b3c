package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
)

// Pearson computes the Pearson correlation coefficient of two equal-length
// samples as the centered dot product over the product of centered norms:
//
//	r = Σ(x-x̄)(y-ȳ) / sqrt(Σ(x-x̄)² · Σ(y-ȳ)²)
//
// The coefficient is undefined when either sample has zero variance (a
// constant vector) or the lengths differ; NaN is returned in those cases so
// callers can exclude the score explicitly.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return math.NaN()
	}

	cx := centered(x)
	cy := centered(y)

	sxx := floats.Dot(cx, cx)
	syy := floats.Dot(cy, cy)
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}

	r := floats.Dot(cx, cy) / math.Sqrt(sxx*syy)

	// rounding can push a perfect match a hair past ±1
	return math.Max(-1, math.Min(1, r))
}

func centered(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	floats.AddConst(-common.Mean(data), out)
	return out
}
