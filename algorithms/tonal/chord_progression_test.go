package tonal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labels parses a compact test sequence
func labels(t *testing.T, names ...string) []Label {
	t.Helper()
	out := make([]Label, len(names))
	for i, name := range names {
		l, err := ParseLabel(name)
		require.NoError(t, err)
		out[i] = l
	}
	return out
}

func TestSmoothPreservesLength(t *testing.T) {
	base := labels(t, "C", "unknown", "G", "G", "Am", "C", "unknown", "F", "F", "G", "C")

	for n := 0; n <= len(base); n++ {
		for _, w := range []int{1, 3, 5, 7, 9, 21} {
			assert.Len(t, Smooth(base[:n], w), n, "n=%d w=%d", n, w)
		}
	}
}

func TestSmoothMajorityVote(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		window int
		want   []string
	}{
		{
			name:   "spike removed",
			input:  []string{"C", "C", "G", "C", "C"},
			window: 5,
			want:   []string{"C", "C", "C", "C", "C"},
		},
		{
			name:   "tie keeps first seen",
			input:  []string{"C", "G"},
			window: 3,
			want:   []string{"C", "C"},
		},
		{
			name:   "unknown excluded",
			input:  []string{"unknown", "unknown", "Am"},
			window: 3,
			want:   []string{"unknown", "Am", "Am"},
		},
		{
			name:   "all unknown",
			input:  []string{"unknown", "unknown", "unknown"},
			window: 5,
			want:   []string{"unknown", "unknown", "unknown"},
		},
		{
			name:   "window one is identity",
			input:  []string{"C", "unknown", "G", "C"},
			window: 1,
			want:   []string{"C", "unknown", "G", "C"},
		},
		{
			name:   "window below one is identity",
			input:  []string{"C", "unknown", "G", "C"},
			window: 0,
			want:   []string{"C", "unknown", "G", "C"},
		},
		{
			name:   "edges clip the window",
			input:  []string{"G", "C", "C", "D", "D", "D"},
			window: 5,
			want:   []string{"C", "C", "C", "D", "D", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, labels(t, tt.want...), Smooth(labels(t, tt.input...), tt.window))
		})
	}
}

func TestSmoothIdempotentOnStableRuns(t *testing.T) {
	// every run is longer than half the window, so each window is dominated by
	// the chord at its centre
	var names []string
	for _, chord := range []string{"C", "G", "Am", "F"} {
		for range 6 {
			names = append(names, chord)
		}
	}
	stable := labels(t, names...)

	once := Smooth(stable, DefaultSmoothingWindow)
	assert.Equal(t, stable, once)
	assert.Equal(t, once, Smooth(once, DefaultSmoothingWindow))

	uniform := labels(t, "Em", "Em", "Em", "Em")
	for _, w := range []int{1, 3, 5, 7} {
		assert.Equal(t, uniform, Smooth(uniform, w))
	}
}

func TestSegmentAllUnknown(t *testing.T) {
	for n := range 8 {
		segs := Segment(make([]Label, n), 0.1)
		assert.NotNil(t, segs)
		assert.Empty(t, segs)
	}
}

func TestSegmentAbsorbsUnknown(t *testing.T) {
	segs := Segment(labels(t, "C", "C", "C", "unknown", "C", "G", "G"), 0.1)
	require.Len(t, segs, 2)

	assert.Equal(t, CMajor, segs[0].Chord)
	assert.InDelta(t, 0.0, segs[0].StartTime, 1e-9)
	assert.InDelta(t, 0.5, segs[0].EndTime, 1e-9)
	assert.InDelta(t, 0.5, segs[0].Duration, 1e-9)

	assert.Equal(t, GMajor, segs[1].Chord)
	assert.InDelta(t, 0.5, segs[1].StartTime, 1e-9)
	assert.InDelta(t, 0.7, segs[1].EndTime, 1e-9)
	assert.InDelta(t, 0.2, segs[1].Duration, 1e-9)
}

func TestSegmentLeadingAndTrailingUnknown(t *testing.T) {
	segs := Segment(labels(t, "unknown", "unknown", "Dm", "Dm", "unknown"), 0.5)
	require.Len(t, segs, 1)

	// leading unknown frames belong to no segment; trailing ones stretch the last
	assert.Equal(t, NewChordSegment(DMinor, 1.0, 2.5), segs[0])
}

func TestSegmentReturningChord(t *testing.T) {
	segs := Segment(labels(t, "C", "G", "C"), 1)
	require.Len(t, segs, 3)
	assert.Equal(t, []ChordSegment{
		NewChordSegment(CMajor, 0, 1),
		NewChordSegment(GMajor, 1, 2),
		NewChordSegment(CMajor, 2, 3),
	}, segs)
}

func TestSegmentExpandRoundTrip(t *testing.T) {
	raw := labels(t,
		"unknown", "C", "C", "unknown", "C", "C", "G", "G", "G", "unknown",
		"unknown", "G", "Am", "Am", "Am", "Am", "F", "F", "F", "unknown",
	)
	smoothed := Smooth(raw, DefaultSmoothingWindow)

	const frameDuration = 512.0 / 22050.0
	expanded := Expand(Segment(smoothed, frameDuration), frameDuration, len(smoothed))
	require.Len(t, expanded, len(smoothed))

	for i, l := range smoothed {
		if l.IsUnknown() {
			continue
		}
		assert.Equal(t, l, expanded[i], "frame %d", i)
	}
}

func TestAggregate(t *testing.T) {
	stats := Aggregate(labels(t, "C", "C", "unknown", "G"))
	assert.Equal(t, ChordStatistics{CMajor: 2, GMajor: 1}, stats)
	assert.Equal(t, 3, stats.Total())

	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate(labels(t, "unknown")).Percentages())
}

func TestMostCommonOrdering(t *testing.T) {
	stats := Aggregate(labels(t, "G", "Am", "Am", "C", "G", "Am", "F"))

	assert.Equal(t, []ChordCount{
		{Chord: AMinor, Count: 3},
		{Chord: GMajor, Count: 2},
		{Chord: CMajor, Count: 1},
		{Chord: FMajor, Count: 1},
	}, stats.MostCommon())

	pct := stats.Percentages()
	assert.InDelta(t, 300.0/7, pct[AMinor], 1e-9)
	assert.InDelta(t, 100.0, pct[AMinor]+pct[GMajor]+pct[CMajor]+pct[FMajor], 1e-9)
}
