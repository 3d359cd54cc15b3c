package spectral

import (
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft    *FFT
	center bool
	logger logging.Logger
}

// STFTResult holds the magnitude spectrogram of an STFT analysis
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []float64) error
}

// NewSTFT creates a new STFT calculator. Frames are centered: the signal is
// reflect-padded by windowSize/2 on both ends so frame t is centered on
// sample t*hopSize.
func NewSTFT() *STFT {
	return &STFT{
		fft:    NewFFT(),
		center: true,
		logger: logging.WithFields(logging.Fields{"component": "stft"}),
	}
}

// WithCentering toggles frame centering
func (s *STFT) WithCentering(center bool) *STFT {
	s.center = center
	return s
}

// ComputeWithWindow computes STFT with parallel processing and custom window type
func (s *STFT) ComputeWithWindow(signal []float64, windowSize int, hopSize int, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	if s.center {
		signal = reflectPad(signal, windowSize/2)
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if len(signal) < windowSize || numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for given window size and hop size")
	}

	// positive frequencies only
	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
	}

	numWorkers := common.OptimalWorkerCount(numFrames)

	type frameJob struct {
		frameIdx int
		startIdx int
		endIdx   int
	}

	jobs := make(chan frameJob, numFrames)

	var wg sync.WaitGroup
	var failOnce sync.Once
	var windowErr error

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for job := range jobs {
				copy(frameBuffer, signal[job.startIdx:job.endIdx])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						failOnce.Do(func() { windowErr = err })
						continue
					}
				}

				fftResult := s.fft.Compute(frameBuffer)
				for i := range freqBins {
					magnitude[job.frameIdx][i] = cmplx.Abs(fftResult[i])
				}
			}
		}()
	}

	for frameIdx := range numFrames {
		startIdx := frameIdx * hopSize
		jobs <- frameJob{
			frameIdx: frameIdx,
			startIdx: startIdx,
			endIdx:   startIdx + windowSize,
		}
	}
	close(jobs)

	wg.Wait()

	if windowErr != nil {
		return nil, fmt.Errorf("failed to apply window: %w", windowErr)
	}

	s.logger.Debug("STFT computed", logging.Fields{
		"frames":      numFrames,
		"freq_bins":   freqBins,
		"workers":     numWorkers,
		"window_size": windowSize,
		"hop_size":    hopSize,
	})

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// reflectPad mirrors pad samples onto each end, excluding the edge sample.
// Signals too short to mirror are zero-padded instead.
func reflectPad(signal []float64, pad int) []float64 {
	if pad <= 0 {
		return signal
	}

	n := len(signal)
	out := make([]float64, n+2*pad)
	copy(out[pad:], signal)

	if n <= pad {
		return out
	}

	for i := range pad {
		out[pad-1-i] = signal[i+1]
		out[pad+n+i] = signal[n-2-i]
	}

	return out
}
