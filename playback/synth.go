package playback

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
)

// Waveform selects an oscillator shape
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Square
	Triangle
)

// Oscillator is one voice layer of the synthesizer
type Oscillator struct {
	Waveform  Waveform `json:"waveform"`
	Volume    float64  `json:"volume"`
	Transpose int      `json:"transpose"` // semitones
}

// SynthConfig holds synthesizer parameters
type SynthConfig struct {
	SampleRate  int          `json:"sample_rate"`
	Volume      float64      `json:"volume"` // output peak in (0, 1]
	Oscillators []Oscillator `json:"oscillators"`
}

// DefaultSynthConfig returns a bright guitar-like patch: a sawtooth with a
// quieter square an octave above
func DefaultSynthConfig() *SynthConfig {
	return &SynthConfig{
		SampleRate: 44100,
		Volume:     0.5,
		Oscillators: []Oscillator{
			{Waveform: Sawtooth, Volume: 0.8},
			{Waveform: Square, Volume: 0.3, Transpose: 12},
		},
	}
}

// Synthesizer renders chords as float32 PCM
type Synthesizer struct {
	config SynthConfig
}

// NewSynthesizer creates a synthesizer, using DefaultSynthConfig when config
// is nil
func NewSynthesizer(config *SynthConfig) *Synthesizer {
	if config == nil {
		config = DefaultSynthConfig()
	}
	return &Synthesizer{config: *config}
}

// SampleRate returns the output sample rate
func (s *Synthesizer) SampleRate() int {
	return s.config.SampleRate
}

// Samples returns how many samples cover seconds
func (s *Synthesizer) Samples(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * float64(s.config.SampleRate)))
}

// RenderChord renders the chord's voicing for seconds
func (s *Synthesizer) RenderChord(c tonal.Chord, seconds float64) []float32 {
	return s.RenderNotes(Voicing(c), seconds)
}

// RenderNotes mixes every oscillator for every note and scales the result so
// its peak equals the configured volume
func (s *Synthesizer) RenderNotes(notes []uint8, seconds float64) []float32 {
	n := s.Samples(seconds)
	mix := make([]float64, n)

	for _, note := range notes {
		for _, osc := range s.config.Oscillators {
			freq := NoteFrequency(float64(int(note) + osc.Transpose))
			step := freq / float64(s.config.SampleRate)
			for i := range mix {
				mix[i] += osc.Volume * oscillate(osc.Waveform, math.Mod(float64(i)*step, 1))
			}
		}
	}

	peak := common.MaxAbs(mix)
	out := make([]float32, n)
	if peak == 0 {
		return out
	}

	gain := s.config.Volume / peak
	for i, v := range mix {
		out[i] = float32(v * gain)
	}
	return out
}

// oscillate evaluates a waveform at phase in [0, 1)
func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case Sawtooth:
		return 2*phase - 1
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
