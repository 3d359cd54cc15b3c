package tonal

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-chords/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maskFrame(c Chord) chroma.PitchClassVector {
	return chroma.PitchClassVector(c.Template().Mask)
}

func TestTemplateTable(t *testing.T) {
	table := Templates()
	require.Len(t, table, NumChords)

	names := []string{
		"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
		"Cm", "C#m", "Dm", "D#m", "Em", "Fm", "F#m", "Gm", "G#m", "Am", "A#m", "Bm",
	}
	for i, tmpl := range table {
		assert.Equal(t, names[i], tmpl.Name)
		assert.Equal(t, Chord(i), tmpl.Chord)

		ones := 0
		for _, v := range tmpl.Mask {
			ones += int(v)
		}
		assert.Equal(t, 3, ones, tmpl.Name)
	}

	assert.Equal(t, [12]float64{1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0}, table[CMajor].Mask)
	assert.Equal(t, [12]float64{0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 1, 0}, table[GMinor].Mask)
	assert.Equal(t, [12]float64{0, 1, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0}, table[CSharpMajor].Mask)

	// callers get a copy
	table[0].Mask[1] = 1
	assert.Equal(t, 0.0, Templates()[0].Mask[1])
}

func TestParseChord(t *testing.T) {
	for _, c := range Chords() {
		parsed, err := ParseChord(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseChord("Cmaj7")
	assert.Error(t, err)
	_, err = ParseChord("c")
	assert.Error(t, err)

	assert.Equal(t, 9, AMinor.Root())
	assert.True(t, AMinor.IsMinor())
	assert.False(t, AMajor.IsMinor())
	assert.Equal(t, [3]int{0, 3, 7}, EMinor.Intervals())
}

func TestLabel(t *testing.T) {
	var zero Label
	assert.True(t, zero.IsUnknown())
	assert.Equal(t, Unknown, zero)
	assert.Equal(t, "unknown", zero.String())

	l := Known(FSharpMinor)
	c, ok := l.Chord()
	assert.True(t, ok)
	assert.Equal(t, FSharpMinor, c)
	assert.Equal(t, "F#m", l.String())

	parsed, err := ParseLabel("unknown")
	require.NoError(t, err)
	assert.Equal(t, Unknown, parsed)

	var fromText Label
	require.NoError(t, fromText.UnmarshalText([]byte("Bm")))
	assert.Equal(t, Known(BMinor), fromText)
	assert.Error(t, fromText.UnmarshalText([]byte("H")))
}

func TestClassifyEveryTemplate(t *testing.T) {
	fc := NewFrameClassifierDefault()

	for _, c := range Chords() {
		// raw mask and unit-sum copy must agree
		raw := maskFrame(c)
		label, score := fc.Score(raw)
		assert.Equal(t, Known(c), label, c.String())
		assert.InDelta(t, 1.0, score, 1e-9, c.String())

		label, score = fc.Score(raw.Normalized())
		assert.Equal(t, Known(c), label, c.String())
		assert.InDelta(t, 1.0, score, 1e-9, c.String())
	}
}

func TestClassifyScaledAndNoisyFrames(t *testing.T) {
	fc := NewFrameClassifierDefault()

	frame := maskFrame(GMajor)
	for i := range frame {
		frame[i] = frame[i]*7 + 0.05
	}
	assert.Equal(t, Known(GMajor), fc.Classify(frame))
}

func TestClassifyDegenerateFrames(t *testing.T) {
	fc := NewFrameClassifierDefault()

	label, score := fc.Score(chroma.PitchClassVector{})
	assert.Equal(t, Unknown, label)
	assert.True(t, math.IsNaN(score))

	var flat chroma.PitchClassVector
	for i := range flat {
		flat[i] = 1
	}
	assert.Equal(t, Unknown, fc.Classify(flat))
}

func TestClassifyBelowThreshold(t *testing.T) {
	// a single pitch class correlates at about 0.52 with each triad holding it
	single := chroma.PitchClassVector{1}
	label, score := NewFrameClassifierDefault().Score(single)
	require.Greater(t, score, 0.5)
	assert.Equal(t, Known(CMajor), label)

	label, _ = NewFrameClassifier(0.9).Score(single)
	assert.Equal(t, Unknown, label)
}

func TestClassifySinglePitchTiesPickEarliest(t *testing.T) {
	fc := NewFrameClassifierDefault()

	// six triads hold each pitch class and all score the same; the first
	// major triad in table order wins
	want := []Chord{
		CMajor,      // C: C F G# Cm Fm Am
		CSharpMajor, // C#
		DMajor,      // D
		DSharpMajor, // D#
		CMajor,      // E: C E A
		CSharpMajor, // F
		DMajor,      // F#
		CMajor,      // G: C D# G
		CSharpMajor, // G#: C# E G#
		DMajor,      // A
		DSharpMajor, // A#
		EMajor,      // B: E G B
	}

	for pc := range chroma.NumPitchClasses {
		var frame chroma.PitchClassVector
		frame[pc] = 1

		label, score := fc.Score(frame)
		assert.Equal(t, Known(want[pc]), label, chroma.PitchClassNames[pc])

		// every template holding the pitch class scores within rounding of the winner
		holders := 0
		for _, tmpl := range Templates() {
			if tmpl.Mask[pc] == 1 {
				holders++
				assert.InDelta(t, score, stats.Pearson(common.NormalizeSum(frame[:]), tmpl.Mask[:]), 1e-12)
			}
		}
		assert.Equal(t, 6, holders)
	}
}

func TestClassifyFramesKeepsOrder(t *testing.T) {
	fc := NewFrameClassifierDefault()

	frames := make([]chroma.PitchClassVector, 500)
	want := make([]Label, len(frames))
	for i := range frames {
		if i%7 == 0 {
			continue
		}
		c := Chord(i % NumChords)
		frames[i] = maskFrame(c)
		want[i] = Known(c)
	}

	for _, workers := range []int{0, 1, 3, 16} {
		assert.Equal(t, want, fc.ClassifyFrames(frames, workers), "workers=%d", workers)
	}

	assert.Empty(t, fc.ClassifyFrames(nil, 4))
}
