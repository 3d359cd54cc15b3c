package windowing

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// Hann is a precomputed Hann window.
// The periodic form (symmetric=false) is the one used for STFT analysis.
type Hann struct {
	coefficients []float64
}

// NewHann builds a window of size samples. Symmetric windows come from
// go-dsp; periodic ones divide by size instead of size-1.
func NewHann(size int, symmetric bool) *Hann {
	switch {
	case size <= 0:
		return &Hann{coefficients: []float64{}}
	case symmetric:
		return &Hann{coefficients: window.Hann(size)}
	}

	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size)))
	}
	return &Hann{coefficients: coeffs}
}

// ApplyInPlace multiplies signal by the window
func (h *Hann) ApplyInPlace(signal []float64) error {
	if len(signal) != len(h.coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(h.coefficients))
	}
	floats.Mul(signal, h.coefficients)
	return nil
}

// Coefficients returns a copy of the window
func (h *Hann) Coefficients() []float64 {
	return append([]float64(nil), h.coefficients...)
}

func (h *Hann) Size() int {
	return len(h.coefficients)
}
