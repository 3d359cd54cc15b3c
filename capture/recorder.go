// Package capture records mono audio from an input device so it can be
// analyzed the same way as a decoded file.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/transcode"
)

// DefaultFramesPerBuffer is the blocking read size of the input stream
const DefaultFramesPerBuffer = 1024

// Source delivers mono float32 samples at its own rate. Read fills buf
// completely or fails.
type Source interface {
	Read(ctx context.Context, buf []float32) error
	SampleRate() int
	Close() error
}

// RecorderConfig holds capture parameters. SampleRate is the rate of the
// recorded audio; DeviceSampleRate is what the input device is opened at, 0
// meaning the device's default.
type RecorderConfig struct {
	SampleRate       int    `json:"sample_rate"`
	DeviceSampleRate int    `json:"device_sample_rate"`
	FramesPerBuffer  int    `json:"frames_per_buffer"`
	ResampleQuality  string `json:"resample_quality"`
}

// DefaultRecorderConfig captures at the device default and delivers the
// analysis rate
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		SampleRate:      22050,
		FramesPerBuffer: DefaultFramesPerBuffer,
		ResampleQuality: "medium",
	}
}

// Recorder pulls a fixed duration of audio from a Source
type Recorder struct {
	config RecorderConfig
	source Source
	logger logging.Logger
}

// NewRecorder creates a recorder over source. A nil config uses
// DefaultRecorderConfig.
func NewRecorder(config *RecorderConfig, source Source) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	return &Recorder{
		config: *config,
		source: source,
		logger: logging.WithFields(logging.Fields{
			"component":   "recorder",
			"sample_rate": config.SampleRate,
		}),
	}
}

// Record captures duration worth of samples and resamples them from the
// source's rate to the configured one. Cancelling ctx stops the capture and
// returns the context's error.
func (r *Recorder) Record(ctx context.Context, duration time.Duration) (*transcode.AudioData, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("recording duration must be positive: %v", duration)
	}
	if r.config.SampleRate <= 0 || r.config.FramesPerBuffer <= 0 {
		return nil, fmt.Errorf("invalid recorder config: sample rate %d, frames per buffer %d",
			r.config.SampleRate, r.config.FramesPerBuffer)
	}
	deviceRate := r.source.SampleRate()
	if deviceRate <= 0 {
		return nil, fmt.Errorf("input source reports sample rate %d", deviceRate)
	}

	total := int(duration.Seconds() * float64(deviceRate))
	pcm := make([]float64, 0, total)
	buf := make([]float32, r.config.FramesPerBuffer)

	r.logger.Info("Recording started", logging.Fields{"duration": duration.String()})
	started := time.Now()

	for len(pcm) < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.source.Read(ctx, buf); err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}

		n := min(len(buf), total-len(pcm))
		for _, v := range buf[:n] {
			pcm = append(pcm, float64(v))
		}
	}

	r.logger.Info("Recording finished", logging.Fields{"samples": len(pcm), "device_sample_rate": deviceRate})

	pcm = transcode.Resample(pcm, deviceRate, r.config.SampleRate, r.config.ResampleQuality)

	return &transcode.AudioData{
		PCM:        pcm,
		SampleRate: r.config.SampleRate,
		Channels:   1,
		Timestamp:  started,
		Metadata: &transcode.AudioMetadata{
			SampleRate: deviceRate,
			Channels:   1,
			Codec:      "pcm_f32",
			Duration:   float64(len(pcm)) / float64(r.config.SampleRate),
			Format:     "microphone",
		},
	}, nil
}

// PortAudioSource reads from the default input device
type PortAudioSource struct {
	stream     *portaudio.Stream
	buffer     []float32
	sampleRate int
}

// NewPortAudioSource initializes PortAudio and opens a mono input stream on
// the default device, at its default sample rate unless DeviceSampleRate is set
func NewPortAudioSource(config *RecorderConfig) (*PortAudioSource, error) {
	if config == nil {
		config = DefaultRecorderConfig()
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to get default input device: %w", err)
	}

	params := portaudio.HighLatencyParameters(device, nil)
	params.Input.Channels = 1
	if config.DeviceSampleRate > 0 {
		params.SampleRate = float64(config.DeviceSampleRate)
	}
	params.FramesPerBuffer = config.FramesPerBuffer

	buffer := make([]float32, config.FramesPerBuffer)
	stream, err := portaudio.OpenStream(params, buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	return &PortAudioSource{stream: stream, buffer: buffer, sampleRate: int(params.SampleRate)}, nil
}

// SampleRate returns the rate the stream was opened at
func (p *PortAudioSource) SampleRate() int {
	return p.sampleRate
}

// Read fills buf from the stream one device buffer at a time
func (p *PortAudioSource) Read(ctx context.Context, buf []float32) error {
	for offset := 0; offset < len(buf); {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.stream.Read(); err != nil {
			return fmt.Errorf("failed to read input stream: %w", err)
		}
		offset += copy(buf[offset:], p.buffer)
	}
	return nil
}

// Close stops the stream and releases PortAudio
func (p *PortAudioSource) Close() error {
	stopErr := p.stream.Stop()
	closeErr := p.stream.Close()
	termErr := portaudio.Terminate()

	switch {
	case stopErr != nil:
		return fmt.Errorf("failed to stop input stream: %w", stopErr)
	case closeErr != nil:
		return fmt.Errorf("failed to close input stream: %w", closeErr)
	case termErr != nil:
		return fmt.Errorf("failed to terminate portaudio: %w", termErr)
	}
	return nil
}
