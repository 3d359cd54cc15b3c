package chroma

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freqs []float64, sampleRate, samples int) []float64 {
	signal := make([]float64, samples)
	for i := range signal {
		for _, f := range freqs {
			signal[i] += math.Sin(2 * math.Pi * f * float64(i) / float64(sampleRate))
		}
	}
	return signal
}

func TestFromRowsTransposes(t *testing.T) {
	rows := make([][]float64, NumPitchClasses)
	for pc := range rows {
		rows[pc] = []float64{float64(pc), float64(pc * 10)}
	}

	m, err := FromRows(rows)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, m.Len())
	assert.Equal(7.0, m.Frames[0][7])
	assert.Equal(70.0, m.Frames[1][7])
	assert.Equal(rows, m.Rows())
}

func TestFromRowsRejectsBadShapes(t *testing.T) {
	_, err := FromRows(make([][]float64, 11))
	assert.Error(t, err)

	rows := make([][]float64, NumPitchClasses)
	for pc := range rows {
		rows[pc] = make([]float64, 3)
	}
	rows[4] = make([]float64, 2)
	_, err = FromRows(rows)
	assert.Error(t, err)
}

func TestPitchClassVectorNormalized(t *testing.T) {
	v := PitchClassVector{2, 0, 0, 0, 2, 0, 0, 4}
	n := v.Normalized()

	assert.InDelta(t, 1.0, n.Sum(), 1e-12)
	assert.Equal(t, 0.5, n[7])
	assert.Equal(t, 7, v.Dominant())
	assert.Equal(t, PitchClassVector{}, PitchClassVector{}.Normalized())
}

func TestComputeChromaFindsPureTone(t *testing.T) {
	sampleRate := 22050
	cs := NewChromaSTFTDefault(sampleRate)

	// A4
	m, err := cs.ComputeChroma(sine([]float64{440}, sampleRate, sampleRate), 2048, 512)
	require.NoError(t, err)

	// centered frames: 1 + len/hop
	require.Equal(t, 1+sampleRate/512, m.Len())
	mid := m.Frames[m.Len()/2]
	assert.Equal(t, 9, mid.Dominant())
	assert.InDelta(t, 1.0, mid[9], 1e-12)
}

func TestComputeChromaCMajorTriad(t *testing.T) {
	sampleRate := 22050
	cs := NewChromaSTFTDefault(sampleRate)

	// C4 E4 G4
	m, err := cs.ComputeChroma(sine([]float64{261.63, 329.63, 392.0}, sampleRate, sampleRate), 2048, 512)
	require.NoError(t, err)

	mid := m.Frames[m.Len()/2]
	for _, pc := range []int{0, 4, 7} {
		assert.Greater(t, mid[pc], 0.5, PitchClassNames[pc])
	}
	for _, pc := range []int{1, 3, 6, 10} {
		assert.Less(t, mid[pc], 0.2, PitchClassNames[pc])
	}
}

func TestComputeChromaEmptySignal(t *testing.T) {
	m, err := NewChromaSTFTDefault(22050).ComputeChroma(nil, 2048, 512)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}
