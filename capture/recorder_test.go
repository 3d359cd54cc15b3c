package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampSource yields an increasing counter so dropped or repeated buffers show
type rampSource struct {
	rate  int
	next  float32
	reads int
	err   error
}

func (r *rampSource) Read(ctx context.Context, buf []float32) error {
	if r.err != nil {
		return r.err
	}
	r.reads++
	for i := range buf {
		buf[i] = r.next
		r.next++
	}
	return nil
}

func (r *rampSource) SampleRate() int { return r.rate }

func (r *rampSource) Close() error { return nil }

func TestRecordCollectsDuration(t *testing.T) {
	source := &rampSource{rate: 1000}
	rec := NewRecorder(&RecorderConfig{SampleRate: 1000, FramesPerBuffer: 300}, source)

	data, err := rec.Record(context.Background(), time.Second)
	require.NoError(t, err)

	require.Len(t, data.PCM, 1000)
	assert.Equal(t, 4, source.reads)
	assert.Equal(t, 1000, data.SampleRate)
	assert.Equal(t, 1, data.Channels)
	assert.InDelta(t, 1.0, data.Seconds(), 1e-9)
	assert.Equal(t, "microphone", data.Metadata.Format)

	for i, v := range data.PCM {
		require.Equal(t, float64(i), v)
	}
}

func TestRecordResamplesDeviceRate(t *testing.T) {
	// a device running at twice the analysis rate
	source := &rampSource{rate: 2000}
	rec := NewRecorder(&RecorderConfig{SampleRate: 1000, FramesPerBuffer: 256}, source)

	data, err := rec.Record(context.Background(), time.Second)
	require.NoError(t, err)

	require.Len(t, data.PCM, 1000)
	assert.Equal(t, 1000, data.SampleRate)
	assert.Equal(t, 2000, data.Metadata.SampleRate)
	assert.InDelta(t, 1.0, data.Seconds(), 1e-9)

	// every other device sample survives
	for i, v := range data.PCM {
		require.InDelta(t, float64(2*i), v, 1e-9)
	}
}

func TestRecordErrors(t *testing.T) {
	rec := NewRecorder(nil, &rampSource{rate: 22050})
	_, err := rec.Record(context.Background(), 0)
	assert.Error(t, err)

	failing := &rampSource{rate: 22050, err: errors.New("device unplugged")}
	_, err = NewRecorder(nil, failing).Record(context.Background(), time.Second)
	assert.ErrorIs(t, err, failing.err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewRecorder(nil, &rampSource{rate: 22050}).Record(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewRecorder(&RecorderConfig{SampleRate: 0, FramesPerBuffer: 1}, &rampSource{rate: 22050}).Record(context.Background(), time.Second)
	assert.Error(t, err)

	_, err = NewRecorder(nil, &rampSource{}).Record(context.Background(), time.Second)
	assert.ErrorContains(t, err, "sample rate 0")
}

func TestDefaultRecorderConfig(t *testing.T) {
	config := DefaultRecorderConfig()
	assert.Equal(t, 22050, config.SampleRate)
	assert.Equal(t, DefaultFramesPerBuffer, config.FramesPerBuffer)
	assert.Zero(t, config.DeviceSampleRate, "device default")
}
