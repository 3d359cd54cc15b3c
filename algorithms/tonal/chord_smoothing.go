package tonal

// DefaultSmoothingWindow is the majority-vote window in frames
const DefaultSmoothingWindow = 5

// Smooth applies a centered majority vote over the label sequence. For each
// frame the window [i-w/2, i+w/2] is clipped to the sequence bounds, Unknown
// entries are ignored, and the most frequent chord wins. Ties go to the chord
// seen first scanning the window left to right. A window holding only Unknown
// yields Unknown. The output always has the same length as labels; windows
// smaller than 1 are treated as 1.
func Smooth(labels []Label, windowSize int) []Label {
	smoothed := make([]Label, len(labels))
	if len(labels) == 0 {
		return smoothed
	}

	half := max(windowSize, 1) / 2

	var counts [NumChords]int
	order := make([]Chord, 0, 2*half+1)

	for i := range labels {
		start := max(0, i-half)
		end := min(len(labels)-1, i+half)

		order = order[:0]
		for j := start; j <= end; j++ {
			c, ok := labels[j].Chord()
			if !ok {
				continue
			}
			if counts[c] == 0 {
				order = append(order, c)
			}
			counts[c]++
		}

		smoothed[i] = Unknown
		bestCount := 0
		for _, c := range order {
			if counts[c] > bestCount {
				smoothed[i] = Known(c)
				bestCount = counts[c]
			}
		}

		for _, c := range order {
			counts[c] = 0
		}
	}

	return smoothed
}
