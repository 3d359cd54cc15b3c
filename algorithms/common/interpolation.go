package common

// InterpolationType selects how values between samples are estimated
type InterpolationType int

const (
	Linear InterpolationType = iota
	Cubic                    // Catmull-Rom
)

// Interpolator reads signals at fractional sample positions
type Interpolator struct {
	method InterpolationType
}

// NewInterpolator creates an interpolator using method
func NewInterpolator(method InterpolationType) *Interpolator {
	return &Interpolator{method: method}
}

// Interpolate returns the value of data at pos. Positions outside the signal
// clamp to the first or last sample. Cubic needs one neighbour on each side
// and falls back to linear at the edges.
func (interp *Interpolator) Interpolate(data []float64, pos float64) float64 {
	n := len(data)
	switch {
	case n == 0:
		return 0
	case pos <= 0:
		return data[0]
	case pos >= float64(n-1):
		return data[n-1]
	}

	i := int(pos)
	t := pos - float64(i)

	if interp.method == Cubic && i >= 1 && i+2 < n {
		return catmullRom(data[i-1], data[i], data[i+1], data[i+2], t)
	}
	return data[i] + t*(data[i+1]-data[i])
}

func catmullRom(y0, y1, y2, y3, t float64) float64 {
	return y1 + 0.5*t*(y2-y0+t*(2*y0-5*y1+4*y2-y3+t*(3*(y1-y2)+y3-y0)))
}

// ResampleSignal converts signal from one sample rate to another, producing
// len*to/from samples. Equal rates return signal itself.
func (interp *Interpolator) ResampleSignal(signal []float64, fromRate, toRate int) []float64 {
	if len(signal) == 0 || fromRate <= 0 || toRate <= 0 || fromRate == toRate {
		return signal
	}

	step := float64(fromRate) / float64(toRate)
	out := make([]float64, int(float64(len(signal))/step))
	for i := range out {
		out[i] = interp.Interpolate(signal, float64(i)*step)
	}
	return out
}
