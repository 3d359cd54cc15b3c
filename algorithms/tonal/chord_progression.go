package tonal

// ChordSegment is a contiguous stretch of time attributed to one chord.
// Times are in seconds.
type ChordSegment struct {
	Chord     Chord   `json:"chord" msgpack:"chord"`
	StartTime float64 `json:"start_time" msgpack:"start_time"`
	EndTime   float64 `json:"end_time" msgpack:"end_time"`
	Duration  float64 `json:"duration" msgpack:"duration"`
}

// NewChordSegment builds a segment, deriving the duration
func NewChordSegment(chord Chord, start, end float64) ChordSegment {
	return ChordSegment{
		Chord:     chord,
		StartTime: start,
		EndTime:   end,
		Duration:  end - start,
	}
}

// Segment collapses a label sequence into chord segments. A segment opens
// when a known label differs from the open chord and closes when the next one
// opens or the sequence ends. Unknown frames neither open nor close segments,
// so they extend whichever segment is open. The last segment ends at
// len(labels)*frameDuration. Sequences without any known label produce an
// empty, non-nil slice.
func Segment(labels []Label, frameDuration float64) []ChordSegment {
	segments := make([]ChordSegment, 0)

	var current Chord
	open := false
	startFrame := 0

	for i, label := range labels {
		c, ok := label.Chord()
		if !ok || (open && c == current) {
			continue
		}

		if open {
			segments = append(segments, NewChordSegment(current,
				float64(startFrame)*frameDuration,
				float64(i)*frameDuration))
		}

		current = c
		open = true
		startFrame = i
	}

	if open {
		segments = append(segments, NewChordSegment(current,
			float64(startFrame)*frameDuration,
			float64(len(labels))*frameDuration))
	}

	return segments
}

// Expand is the inverse of Segment: it rebuilds n frame labels, assigning
// each frame the chord of the segment covering its start time. Frames outside
// every segment are Unknown.
func Expand(segments []ChordSegment, frameDuration float64, n int) []Label {
	labels := make([]Label, n)
	if frameDuration <= 0 {
		return labels
	}

	for _, seg := range segments {
		first := max(0, frameIndex(seg.StartTime, frameDuration))
		last := min(n, frameIndex(seg.EndTime, frameDuration))
		for i := first; i < last; i++ {
			labels[i] = Known(seg.Chord)
		}
	}

	return labels
}

// frameIndex rounds a boundary time back to its frame. Boundaries are exact
// multiples of frameDuration, so rounding absorbs float error.
func frameIndex(t, frameDuration float64) int {
	return int(t/frameDuration + 0.5)
}
