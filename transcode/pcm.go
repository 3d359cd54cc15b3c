package transcode

import (
	"encoding/binary"
	"math"

	"github.com/RyanBlaney/sonido-chords/algorithms/common"
)

// Downmix averages interleaved channels into a mono signal. A trailing
// partial frame is dropped.
func Downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for ch := range channels {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}

	return mono
}

// Resample converts a mono signal between sample rates. Quality "fast" uses
// linear interpolation; anything else uses a cubic spline.
func Resample(signal []float64, fromRate, toRate int, quality string) []float64 {
	method := common.Cubic
	if quality == "fast" {
		method = common.Linear
	}
	return common.NewInterpolator(method).ResampleSignal(signal, fromRate, toRate)
}

// IntToFloat64 scales integer PCM of the given bit depth to [-1, 1]. 8-bit
// PCM is unsigned with silence at 128.
func IntToFloat64(data []int, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v-offset) / scale
	}
	return out
}

// Int16LEToFloat64 converts signed 16-bit little-endian bytes to [-1, 1]
func Int16LEToFloat64(data []byte) []float64 {
	out := make([]float64, len(data)/2)
	for i := range out {
		out[i] = float64(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768.0
	}
	return out
}

// BytesToFloat64 converts raw float64 little-endian bytes, as produced by
// ffmpeg's f64le format. A trailing partial sample is dropped.
func BytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	if sampleCount == 0 {
		return nil
	}

	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8 : i*8+8]))
	}

	return samples
}

// Float64ToInt scales [-1, 1] samples to integer PCM, clipping out-of-range
// values
func Float64ToInt(samples []float64, bitDepth int) []int {
	maxValue := float64(int64(1)<<(bitDepth-1)) - 1

	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(math.Round(common.Clamp(s, -1, 1) * maxValue))
	}
	return out
}
