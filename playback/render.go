package playback

import (
	"fmt"
	"math"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/transcode"
)

// TicksPerQuarter is the MIDI time resolution of rendered files
const TicksPerQuarter = 480

const (
	midiChannel  = 0
	midiVelocity = 96
)

// RenderTimeline lays every segment at its start time on one buffer spanning
// the end of the last segment. Gaps stay silent.
func RenderTimeline(segments []tonal.ChordSegment, synth *Synthesizer) []float64 {
	end := 0.0
	for _, seg := range segments {
		end = math.Max(end, seg.EndTime)
	}

	out := make([]float64, synth.Samples(end))
	for _, seg := range segments {
		offset := synth.Samples(seg.StartTime)
		for i, v := range synth.RenderChord(seg.Chord, seg.Duration) {
			if offset+i >= len(out) {
				break
			}
			out[offset+i] += float64(v)
		}
	}
	return out
}

// RenderWAV writes the progression as a 16-bit mono WAV file
func RenderWAV(path string, segments []tonal.ChordSegment, synth *Synthesizer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	if err := transcode.EncodeWAV(f, RenderTimeline(segments, synth), synth.SampleRate()); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close wav file: %w", err)
	}
	return nil
}

// secondsToTicks converts seconds at a fixed tempo to MIDI ticks
func secondsToTicks(seconds, bpm float64) uint32 {
	return uint32(math.Round(seconds * bpm / 60 * TicksPerQuarter))
}

// BuildMIDI builds a single-track SMF holding one block chord per segment
func BuildMIDI(segments []tonal.ChordSegment, bpm float64) (*smf.SMF, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("tempo must be positive: %v", bpm)
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("chords"))
	tr.Add(0, smf.MetaTempo(bpm))

	var cursor uint32
	for _, seg := range segments {
		start := secondsToTicks(seg.StartTime, bpm)
		end := max(secondsToTicks(seg.EndTime, bpm), start)
		notes := Voicing(seg.Chord)

		delta := start - min(cursor, start)
		for _, note := range notes {
			tr.Add(delta, midi.NoteOn(midiChannel, note, midiVelocity))
			delta = 0
		}

		delta = end - start
		for _, note := range notes {
			tr.Add(delta, midi.NoteOff(midiChannel, note))
			delta = 0
		}

		cursor = end
	}

	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("failed to add midi track: %w", err)
	}
	return s, nil
}

// RenderMIDI writes the progression as a standard MIDI file
func RenderMIDI(path string, segments []tonal.ChordSegment, bpm float64) error {
	s, err := BuildMIDI(segments, bpm)
	if err != nil {
		return err
	}

	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("failed to write midi file: %w", err)
	}
	return nil
}
