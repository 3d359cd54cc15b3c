package transcode

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/RyanBlaney/sonido-chords/logging"
)

// go-mp3 always emits interleaved 16-bit little-endian stereo
const mp3Channels = 2

// DecodeMP3 reads an MPEG-1/2 layer III stream
func (d *Decoder) DecodeMP3(r io.ReadSeeker) (*AudioData, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open mp3 stream: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to read mp3 samples: %w", err)
	}

	samples := Int16LEToFloat64(raw)
	sampleRate := decoder.SampleRate()

	d.logger.Debug("MP3 decoded", logging.Fields{
		"sample_rate": sampleRate,
		"samples":     len(samples),
	})

	return d.finish(samples, sampleRate, mp3Channels, &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   mp3Channels,
		Codec:      "mp3",
		Duration:   float64(len(samples)/mp3Channels) / float64(sampleRate),
		Format:     "MP3 (MPEG audio layer 3)",
	})
}
