package progression

import (
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// Observer receives structured progress events from an Analyzer. Calls happen
// on the analysing goroutine, in pipeline order.
type Observer interface {
	FramesClassified(frames, unknown int)
	SegmentFound(index int, segment tonal.ChordSegment)
	AnalysisCompleted(result *Result)
}

// NoOpObserver ignores every event
type NoOpObserver struct{}

func (NoOpObserver) FramesClassified(frames, unknown int)           {}
func (NoOpObserver) SegmentFound(index int, seg tonal.ChordSegment) {}
func (NoOpObserver) AnalysisCompleted(result *Result)               {}

// LoggingObserver forwards events to a logger
type LoggingObserver struct {
	logger logging.Logger
}

// NewLoggingObserver creates an observer that logs through logger, or through
// the global logger when nil
func NewLoggingObserver(logger logging.Logger) *LoggingObserver {
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "chord_analyzer"})
	}
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) FramesClassified(frames, unknown int) {
	o.logger.Debug("Frames classified", logging.Fields{
		"frames":  frames,
		"unknown": unknown,
	})
}

func (o *LoggingObserver) SegmentFound(index int, seg tonal.ChordSegment) {
	o.logger.Debug("Chord segment", logging.Fields{
		"index":    index,
		"chord":    seg.Chord.String(),
		"start":    seg.StartTime,
		"end":      seg.EndTime,
		"duration": seg.Duration,
	})
}

func (o *LoggingObserver) AnalysisCompleted(result *Result) {
	o.logger.Info("Chord analysis completed", logging.Fields{
		"frames":         result.Frames,
		"segments":       len(result.Progression),
		"distinct":       len(result.Statistics),
		"total_duration": result.TotalDuration,
	})
}
