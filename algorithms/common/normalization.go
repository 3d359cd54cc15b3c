package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NormalizationType defines normalization method
type NormalizationType int

const (
	// UnitSum scales so the elements sum to 1 (L1 for non-negative data)
	UnitSum NormalizationType = iota
	// Peak scales so the largest absolute value is 1
	Peak
	// Energy scales to unit Euclidean norm
	Energy
)

// Normalizer provides signal normalization methods.
// All methods return a new slice and leave zero-energy input unchanged.
type Normalizer struct {
	method NormalizationType
}

// NewNormalizer creates a new normalizer
func NewNormalizer(method NormalizationType) *Normalizer {
	return &Normalizer{
		method: method,
	}
}

// Normalize normalizes signal using the configured method
func (n *Normalizer) Normalize(signal []float64) []float64 {
	switch n.method {
	case UnitSum:
		return NormalizeSum(signal)
	case Peak:
		return n.peakNormalize(signal)
	case Energy:
		return n.energyNormalize(signal)
	default:
		return NormalizeSum(signal)
	}
}

// NormalizeInPlace overwrites signal with its normalized form
func (n *Normalizer) NormalizeInPlace(signal []float64) {
	copy(signal, n.Normalize(signal))
}

// NormalizeSum divides every element by the total. When the total is not
// positive the input is copied unchanged, so an all-zero frame stays all-zero.
func NormalizeSum(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	total := Sum(signal)
	if total <= 0 {
		return out
	}

	floats.Scale(1/total, out)
	return out
}

func (n *Normalizer) peakNormalize(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	peak := MaxAbs(signal)
	if peak < 1e-10 {
		return out
	}

	floats.Scale(1/peak, out)
	return out
}

func (n *Normalizer) energyNormalize(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	energy := floats.Dot(signal, signal)
	if energy < 1e-10 {
		return out
	}

	floats.Scale(1/math.Sqrt(energy), out)
	return out
}
