package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the chroma and tonal packages, built on gonum

// Sum returns the sum of all elements
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// MaxAbs returns the largest absolute value in data
func MaxAbs(data []float64) float64 {
	peak := 0.0
	for _, val := range data {
		if abs := math.Abs(val); abs > peak {
			peak = abs
		}
	}
	return peak
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
