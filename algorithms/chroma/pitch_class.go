package chroma

import (
	"fmt"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
)

// NumPitchClasses is the number of semitone bins in an octave-folded chroma vector
const NumPitchClasses = 12

// PitchClassNames lists pitch class names by chroma index (0=C ... 11=B)
var PitchClassNames = [NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClassVector holds the energy of each pitch class for one frame
type PitchClassVector [NumPitchClasses]float64

// Sum returns the total energy of the frame
func (v PitchClassVector) Sum() float64 {
	return common.Sum(v[:])
}

// Normalized returns a copy scaled to unit sum. A frame whose raw sum is not
// positive is returned unchanged (all zeros stay all zeros).
func (v PitchClassVector) Normalized() PitchClassVector {
	var out PitchClassVector
	copy(out[:], common.NormalizeSum(v[:]))
	return out
}

// Dominant returns the index of the strongest pitch class (lowest index on ties)
func (v PitchClassVector) Dominant() int {
	best := 0
	for i := 1; i < NumPitchClasses; i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// PitchClassMatrix is a chromagram stored frame by frame: Frames[t][pc] is the
// energy of pitch class pc at frame t.
type PitchClassMatrix struct {
	Frames []PitchClassVector `json:"frames"`
}

// NewPitchClassMatrix builds a matrix from frame-major data
func NewPitchClassMatrix(frames []PitchClassVector) PitchClassMatrix {
	return PitchClassMatrix{Frames: frames}
}

// FromRows builds a matrix from the conventional chromagram layout of 12 rows
// (pitch classes) by N columns (frames). All rows must have the same length.
func FromRows(rows [][]float64) (PitchClassMatrix, error) {
	if len(rows) != NumPitchClasses {
		return PitchClassMatrix{}, fmt.Errorf("chromagram must have %d rows, got %d", NumPitchClasses, len(rows))
	}

	numFrames := len(rows[0])
	for pc, row := range rows {
		if len(row) != numFrames {
			return PitchClassMatrix{}, fmt.Errorf("row %d has %d frames, expected %d", pc, len(row), numFrames)
		}
	}

	frames := make([]PitchClassVector, numFrames)
	for pc, row := range rows {
		for t, energy := range row {
			frames[t][pc] = energy
		}
	}

	return PitchClassMatrix{Frames: frames}, nil
}

// Len returns the number of frames
func (m PitchClassMatrix) Len() int {
	return len(m.Frames)
}

// Rows returns the matrix in 12 x N row layout
func (m PitchClassMatrix) Rows() [][]float64 {
	rows := make([][]float64, NumPitchClasses)
	for pc := range rows {
		rows[pc] = make([]float64, len(m.Frames))
		for t, frame := range m.Frames {
			rows[pc][t] = frame[pc]
		}
	}
	return rows
}
