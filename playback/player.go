package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// Player schedules chord segments against the wall clock: each segment starts
// at playback start plus its start time, or immediately when playback is
// already running late.
type Player struct {
	synth  *Synthesizer
	sink   Sink
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	logger logging.Logger
}

// NewPlayer creates a player that renders with synth and writes to sink
func NewPlayer(synth *Synthesizer, sink Sink) *Player {
	return &Player{
		synth:  synth,
		sink:   sink,
		now:    time.Now,
		sleep:  sleepContext,
		logger: logging.WithFields(logging.Fields{"component": "player"}),
	}
}

// WithClock replaces the time source and sleep function
func (p *Player) WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) *Player {
	p.now = now
	p.sleep = sleep
	return p
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Play renders and plays every segment in order. It returns early with the
// context's error when ctx is cancelled.
func (p *Player) Play(ctx context.Context, segments []tonal.ChordSegment) error {
	if len(segments) == 0 {
		p.logger.Warn("No chords to play")
		return nil
	}

	p.logger.Info("Playing chord progression", logging.Fields{"chords": len(segments)})

	start := p.now()
	for i, seg := range segments {
		target := start.Add(time.Duration(seg.StartTime * float64(time.Second)))
		if wait := target.Sub(p.now()); wait > 0 {
			if err := p.sleep(ctx, wait); err != nil {
				return err
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		p.logger.Info("Playing chord", logging.Fields{
			"index":    i + 1,
			"chord":    seg.Chord.String(),
			"duration": seg.Duration,
		})

		if err := p.sink.Write(ctx, p.synth.RenderChord(seg.Chord, seg.Duration)); err != nil {
			return fmt.Errorf("failed to play %s: %w", seg.Chord, err)
		}
	}

	p.logger.Info("Playback complete")
	return nil
}
