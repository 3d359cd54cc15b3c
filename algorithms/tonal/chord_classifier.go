package tonal

import (
	"math"
	"sync"

	"github.com/RyanBlaney/sonido-chords/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/stats"
)

// DefaultChordThreshold is the minimum correlation for a frame to be labelled
const DefaultChordThreshold = 0.5

// scoreTieTolerance absorbs rounding differences between templates that
// correlate equally. Scores within it are ties and keep the earlier template.
const scoreTieTolerance = 1e-9

// FrameClassifier matches single chroma frames against the triad templates
// using Pearson correlation. It holds no mutable state and is safe for
// concurrent use.
type FrameClassifier struct {
	threshold float64
}

// NewFrameClassifier creates a classifier that emits a chord only when its
// correlation is strictly greater than threshold
func NewFrameClassifier(threshold float64) *FrameClassifier {
	return &FrameClassifier{threshold: threshold}
}

// NewFrameClassifierDefault creates a classifier with the 0.5 threshold
func NewFrameClassifierDefault() *FrameClassifier {
	return NewFrameClassifier(DefaultChordThreshold)
}

// Threshold returns the configured correlation threshold
func (fc *FrameClassifier) Threshold() float64 {
	return fc.threshold
}

// Classify labels one frame
func (fc *FrameClassifier) Classify(frame chroma.PitchClassVector) Label {
	label, _ := fc.Score(frame)
	return label
}

// Score labels one frame and returns the best correlation found. The score is
// NaN when every correlation was undefined, as for an all-zero frame.
func (fc *FrameClassifier) Score(frame chroma.PitchClassVector) (Label, float64) {
	normalized := common.NormalizeSum(frame[:])

	best := Unknown
	bestScore := math.NaN()

	for i := range templates {
		score := stats.Pearson(normalized, templates[i].Mask[:])
		if math.IsNaN(score) {
			continue
		}
		if best.IsUnknown() || score > bestScore+scoreTieTolerance {
			best = Known(templates[i].Chord)
			bestScore = score
		}
	}

	if best.IsUnknown() || bestScore <= fc.threshold {
		return Unknown, bestScore
	}

	return best, bestScore
}

// ClassifyFrames labels every frame using a pool of workers. The result has
// the same length and order as frames. workers <= 0 picks a count from the
// number of frames.
func (fc *FrameClassifier) ClassifyFrames(frames []chroma.PitchClassVector, workers int) []Label {
	labels := make([]Label, len(frames))
	if len(frames) == 0 {
		return labels
	}

	if workers <= 0 {
		workers = common.OptimalWorkerCount(len(frames))
	}
	workers = min(workers, len(frames))

	if workers == 1 {
		for i, frame := range frames {
			labels[i] = fc.Classify(frame)
		}
		return labels
	}

	jobs := make(chan int, len(frames))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				labels[idx] = fc.Classify(frames[idx])
			}
		}()
	}

	for idx := range frames {
		jobs <- idx
	}
	close(jobs)

	wg.Wait()

	return labels
}
