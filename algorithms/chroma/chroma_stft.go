package chroma

import (
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/algorithms/spectral"
	"github.com/RyanBlaney/sonido-chords/algorithms/windowing"
)

// ChromaSTFT computes a chromagram from a Short-Time Fourier Transform:
//   - maps STFT bins to 12 semitone bins (C, C#, ..., B)
//   - folds octaves (every C lands in bin 0)
//   - accumulates energy (magnitude squared) per bin
//   - scales each frame so its strongest bin is 1
type ChromaSTFT struct {
	sampleRate int
	stft       *spectral.STFT
	tuningFreq float64 // A4 frequency (default 440 Hz)
	minFreq    float64 // Minimum frequency to consider
	maxFreq    float64 // Maximum frequency to consider
}

// NewChromaSTFT creates a new STFT-based chromagram calculator
func NewChromaSTFT(sampleRate int, tuningFreq float64) *ChromaSTFT {
	return &ChromaSTFT{
		sampleRate: sampleRate,
		stft:       spectral.NewSTFT(),
		tuningFreq: tuningFreq,
		minFreq:    60.0,   // just under B1
		maxFreq:    5000.0, // upper harmonics add little beyond this
	}
}

// NewChromaSTFTDefault creates chromagram with standard A4=440Hz tuning
func NewChromaSTFTDefault(sampleRate int) *ChromaSTFT {
	return NewChromaSTFT(sampleRate, 440.0)
}

// ComputeChroma computes a chromagram with a periodic Hann window. An empty
// signal yields an empty matrix.
func (cs *ChromaSTFT) ComputeChroma(signal []float64, windowSize, hopSize int) (PitchClassMatrix, error) {
	if len(signal) == 0 {
		return PitchClassMatrix{Frames: []PitchClassVector{}}, nil
	}

	stftResult, err := cs.stft.ComputeWithWindow(signal, windowSize, hopSize, cs.sampleRate, windowing.NewHann(windowSize, false))
	if err != nil {
		return PitchClassMatrix{}, err
	}

	return cs.convertSTFTToChroma(stftResult), nil
}

func (cs *ChromaSTFT) convertSTFTToChroma(stftResult *spectral.STFTResult) PitchClassMatrix {
	frames := make([]PitchClassVector, stftResult.TimeFrames)
	mapping := cs.calculateChromaMapping(stftResult.FreqBins, stftResult.FreqResolution)
	normalizer := common.NewNormalizer(common.Peak)

	for t := range stftResult.TimeFrames {
		for f, magnitude := range stftResult.Magnitude[t] {
			if bin := mapping[f]; bin >= 0 {
				frames[t][bin] += magnitude * magnitude
			}
		}
		copy(frames[t][:], normalizer.Normalize(frames[t][:]))
	}

	return PitchClassMatrix{Frames: frames}
}

// calculateChromaMapping maps FFT bins to chroma bins, -1 for bins outside the band
func (cs *ChromaSTFT) calculateChromaMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := range freqBins {
		frequency := float64(f) * freqResolution

		if frequency < cs.minFreq || frequency > cs.maxFreq {
			mapping[f] = -1
			continue
		}

		midiNote := int(math.Round(cs.frequencyToMIDI(frequency)))
		mapping[f] = ((midiNote % NumPitchClasses) + NumPitchClasses) % NumPitchClasses
	}

	return mapping
}

// frequencyToMIDI converts frequency to MIDI note number: 69 + 12*log2(f/A4)
func (cs *ChromaSTFT) frequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}
	return 69.0 + 12.0*math.Log2(frequency/cs.tuningFreq)
}
