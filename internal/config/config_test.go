package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir into an empty directory so no stray .env is picked up
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.5, cfg.Analysis.Threshold)
	assert.Equal(t, 5, cfg.Analysis.SmoothingWindow)
	assert.Equal(t, 22050, cfg.Audio.SampleRate)
	assert.Zero(t, cfg.Recorder().DeviceSampleRate)
	assert.Equal(t, 512, cfg.Audio.HopLength)
	assert.Equal(t, 2048, cfg.Audio.WindowSize)
	assert.Equal(t, 44100, cfg.Playback.SampleRate)
	assert.Equal(t, "chords.db", cfg.Store.Path)
	assert.Equal(t, "default", cfg.Log.Backend)
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CHORDS_THRESHOLD", "0.6")
	t.Setenv("CHORDS_SMOOTHING_WINDOW", "7")
	t.Setenv("AUDIO_SAMPLE_RATE", "44100")
	t.Setenv("AUDIO_CAPTURE_SAMPLE_RATE", "48000")
	t.Setenv("AUDIO_DECODE_TIMEOUT_SECONDS", "5")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg")
	t.Setenv("LOG_BACKEND", "ZAP")
	t.Setenv("AUDIO_HOP_LENGTH", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	analyzer := cfg.Analyzer()
	assert.Equal(t, 0.6, analyzer.Threshold)
	assert.Equal(t, 7, analyzer.SmoothingWindow)
	assert.Equal(t, 512, analyzer.HopLength, "unparsable values keep the default")

	decoder := cfg.Decoder()
	assert.Equal(t, 44100, decoder.TargetSampleRate)
	assert.Equal(t, "/opt/ffmpeg", decoder.FFmpegPath)
	assert.Equal(t, 5*time.Second, decoder.Timeout)

	assert.Equal(t, 44100, cfg.Recorder().SampleRate)
	assert.Equal(t, 48000, cfg.Recorder().DeviceSampleRate)
	assert.Equal(t, "zap", cfg.Log.Backend)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLAYBACK_VOLUME=0.25\nCHORDS_DB_PATH=history.db\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PLAYBACK_VOLUME")
		os.Unsetenv("CHORDS_DB_PATH")
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Synth().Volume)
	assert.Equal(t, "history.db", cfg.Store.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"even window", func(c *Config) { c.Analysis.SmoothingWindow = 4 }},
		{"threshold out of range", func(c *Config) { c.Analysis.Threshold = 1.5 }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"negative capture rate", func(c *Config) { c.Audio.CaptureSampleRate = -1 }},
		{"loud volume", func(c *Config) { c.Playback.Volume = 2 }},
		{"zero tempo", func(c *Config) { c.Playback.BPM = 0 }},
		{"no database", func(c *Config) { c.Store.Path = "" }},
		{"unknown backend", func(c *Config) { c.Log.Backend = "syslog" }},
	}

	isolate(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
