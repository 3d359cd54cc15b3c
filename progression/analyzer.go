// Package progression turns chromagrams into chord progressions: per-frame
// template classification, majority-vote smoothing, segmentation and frame
// statistics.
package progression

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/sonido-chords/algorithms/chroma"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/transcode"
)

// AnalyzerConfig holds the tunable parameters of the chord pipeline
type AnalyzerConfig struct {
	Threshold       float64 `json:"threshold"`        // Minimum correlation for a chord label
	SmoothingWindow int     `json:"smoothing_window"` // Majority-vote window in frames (odd)
	Workers         int     `json:"workers"`          // Classification workers, 0 = automatic

	// Chroma extraction, used by AnalyzeAudio only
	WindowSize int     `json:"window_size"`
	HopLength  int     `json:"hop_length"`
	TuningFreq float64 `json:"tuning_freq"`
}

// DefaultAnalyzerConfig returns the standard pipeline settings: a 0.5
// correlation threshold, a 5-frame smoothing window, and a 2048/512 STFT
func DefaultAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		Threshold:       tonal.DefaultChordThreshold,
		SmoothingWindow: tonal.DefaultSmoothingWindow,
		Workers:         0,
		WindowSize:      2048,
		HopLength:       512,
		TuningFreq:      440.0,
	}
}

// Validate checks the configuration before a pipeline runs
func (c *AnalyzerConfig) Validate() error {
	if c.Threshold < -1 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be within [-1, 1]: %v", c.Threshold)
	}
	if c.SmoothingWindow < 1 || c.SmoothingWindow%2 == 0 {
		return fmt.Errorf("smoothing window must be a positive odd number: %d", c.SmoothingWindow)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive: %d", c.WindowSize)
	}
	if c.HopLength <= 0 {
		return fmt.Errorf("hop length must be positive: %d", c.HopLength)
	}
	if c.TuningFreq <= 0 {
		return fmt.Errorf("tuning frequency must be positive: %v", c.TuningFreq)
	}
	return nil
}

// Result is the outcome of one analysis
type Result struct {
	Progression   []tonal.ChordSegment  `json:"progression"`
	Statistics    tonal.ChordStatistics `json:"statistics"`
	TotalDuration float64               `json:"total_duration"` // seconds
	Frames        int                   `json:"frames"`
	HopDuration   float64               `json:"hop_duration"` // seconds per frame
}

// Analyzer runs the chord pipeline. It keeps no state between calls, so one
// Analyzer may serve concurrent analyses.
type Analyzer struct {
	config     AnalyzerConfig
	classifier *tonal.FrameClassifier
	observer   Observer
}

// NewAnalyzer creates an analyzer, falling back to DefaultAnalyzerConfig when
// config is nil
func NewAnalyzer(config *AnalyzerConfig) (*Analyzer, error) {
	if config == nil {
		config = DefaultAnalyzerConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}

	return &Analyzer{
		config:     *config,
		classifier: tonal.NewFrameClassifier(config.Threshold),
		observer:   NoOpObserver{},
	}, nil
}

// WithObserver installs an event observer; nil restores the no-op observer
func (a *Analyzer) WithObserver(o Observer) *Analyzer {
	if o == nil {
		o = NoOpObserver{}
	}
	a.observer = o
	return a
}

// Config returns a copy of the analyzer configuration
func (a *Analyzer) Config() AnalyzerConfig {
	return a.config
}

// Analyze runs classification, smoothing, segmentation and aggregation over
// a chromagram. totalDuration is reported as given. A matrix without frames
// yields an empty progression and empty statistics.
func (a *Analyzer) Analyze(matrix chroma.PitchClassMatrix, hopDuration, totalDuration float64) *Result {
	labels := a.classifier.ClassifyFrames(matrix.Frames, a.config.Workers)

	unknown := 0
	for _, l := range labels {
		if l.IsUnknown() {
			unknown++
		}
	}
	a.observer.FramesClassified(len(labels), unknown)

	smoothed := tonal.Smooth(labels, a.config.SmoothingWindow)
	segments := tonal.Segment(smoothed, hopDuration)
	for i, seg := range segments {
		a.observer.SegmentFound(i, seg)
	}

	result := &Result{
		Progression:   segments,
		Statistics:    tonal.Aggregate(smoothed),
		TotalDuration: totalDuration,
		Frames:        len(labels),
		HopDuration:   hopDuration,
	}
	a.observer.AnalysisCompleted(result)

	return result
}

// AnalyzeAudio extracts a chromagram from decoded mono audio and analyses it.
// The total duration is the audio's own length.
func (a *Analyzer) AnalyzeAudio(ctx context.Context, audio *transcode.AudioData) (*Result, error) {
	if audio == nil || audio.SampleRate <= 0 {
		return nil, fmt.Errorf("no decoded audio to analyse")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pcm := transcode.Downmix(audio.PCM, audio.Channels)

	matrix, err := chroma.NewChromaSTFT(audio.SampleRate, a.config.TuningFreq).
		ComputeChroma(pcm, a.config.WindowSize, a.config.HopLength)
	if err != nil {
		return nil, fmt.Errorf("failed to compute chromagram: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hopDuration := float64(a.config.HopLength) / float64(audio.SampleRate)
	return a.Analyze(matrix, hopDuration, audio.Seconds()), nil
}
