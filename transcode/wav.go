package transcode

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-chords/logging"
)

// DecodeWAV reads a RIFF/WAVE stream of integer PCM
func (d *Decoder) DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav file", ErrUnsupportedFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %w", err)
	}

	bitDepth := int(decoder.BitDepth)
	channels := int(decoder.NumChans)
	sampleRate := int(decoder.SampleRate)
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: wav header has %d channels at %d Hz", ErrUnsupportedFormat, channels, sampleRate)
	}

	samples := IntToFloat64(buf.Data, bitDepth)

	d.logger.Debug("WAV decoded", logging.Fields{
		"sample_rate": sampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
		"samples":     len(samples),
	})

	return d.finish(samples, sampleRate, channels, &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   channels,
		Codec:      "pcm",
		Duration:   float64(len(samples)/channels) / float64(sampleRate),
		Format:     fmt.Sprintf("wav %d-bit", bitDepth),
	})
}

// wavPCMFormat is the WAVE format tag for integer PCM
const wavPCMFormat = 1

// EncodeWAV writes mono samples in [-1, 1] as 16-bit PCM
func EncodeWAV(w io.WriteSeeker, samples []float64, sampleRate int) error {
	const bitDepth = 16

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           Float64ToInt(samples, bitDepth),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}
