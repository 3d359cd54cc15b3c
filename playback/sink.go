package playback

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Sink consumes rendered audio. Write blocks until the samples have been
// handed to the device.
type Sink interface {
	Write(ctx context.Context, samples []float32) error
	Close() error
}

// PortAudioSink plays mono float32 PCM on the default output device
type PortAudioSink struct {
	stream *portaudio.Stream
	buffer []float32
}

// DefaultFramesPerBuffer is the blocking write size of PortAudioSink
const DefaultFramesPerBuffer = 1024

// NewPortAudioSink initializes PortAudio and opens a mono output stream
func NewPortAudioSink(sampleRate int) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	buffer := make([]float32, DefaultFramesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(buffer), buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open output stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start output stream: %w", err)
	}

	return &PortAudioSink{stream: stream, buffer: buffer}, nil
}

// Write plays samples buffer by buffer, zero-padding the final one
func (p *PortAudioSink) Write(ctx context.Context, samples []float32) error {
	for offset := 0; offset < len(samples); offset += len(p.buffer) {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := copy(p.buffer, samples[offset:])
		clear(p.buffer[n:])

		if err := p.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to output stream: %w", err)
		}
	}
	return nil
}

// Close stops the stream and releases PortAudio
func (p *PortAudioSink) Close() error {
	stopErr := p.stream.Stop()
	closeErr := p.stream.Close()
	termErr := portaudio.Terminate()

	switch {
	case stopErr != nil:
		return fmt.Errorf("failed to stop output stream: %w", stopErr)
	case closeErr != nil:
		return fmt.Errorf("failed to close output stream: %w", closeErr)
	case termErr != nil:
		return fmt.Errorf("failed to terminate portaudio: %w", termErr)
	}
	return nil
}
