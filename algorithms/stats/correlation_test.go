package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}
	scaled := make([]float64, len(x))
	for i, v := range x {
		scaled[i] = v / 3
	}

	assert.InDelta(t, 1.0, Pearson(scaled, x), 1e-12)
}

func TestPearsonAgreesWithGonum(t *testing.T) {
	x := []float64{0.1, 0.3, 0.05, 0.2, 0.15, 0.2}
	y := []float64{0, 1, 0, 1, 0, 1}

	assert.InDelta(t, stat.Correlation(x, y, nil), Pearson(x, y), 1e-12)
}

func TestPearsonAnticorrelation(t *testing.T) {
	assert.InDelta(t, -1.0, Pearson([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
}

func TestPearsonUndefinedCases(t *testing.T) {
	cases := []struct {
		name string
		x, y []float64
	}{
		{"constant x", make([]float64, 12), []float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}},
		{"constant y", []float64{1, 2, 3}, []float64{4, 4, 4}},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}},
		{"empty", nil, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(Pearson(tc.x, tc.y)))
		})
	}
}
