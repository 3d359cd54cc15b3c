package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/RyanBlaney/sonido-chords/capture"
	"github.com/RyanBlaney/sonido-chords/playback"
	"github.com/RyanBlaney/sonido-chords/progression"
	"github.com/RyanBlaney/sonido-chords/transcode"
)

type AnalysisConfig struct {
	Threshold       float64
	SmoothingWindow int
	Workers         int
}

type AudioConfig struct {
	SampleRate           int
	CaptureSampleRate    int // 0 uses the input device default
	HopLength            int
	WindowSize           int
	TuningFreq           float64
	FFmpegPath           string
	FFprobePath          string
	DecodeTimeoutSeconds int
}

type PlaybackConfig struct {
	SampleRate int
	Volume     float64
	BPM        float64
}

type StoreConfig struct {
	Path string
}

type LogConfig struct {
	Level   string
	Backend string // "default" or "zap"
}

type Config struct {
	Analysis AnalysisConfig
	Audio    AudioConfig
	Playback PlaybackConfig
	Store    StoreConfig
	Log      LogConfig
}

// Load reads .env (when present) and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Analysis: AnalysisConfig{
			Threshold:       getEnvFloat("CHORDS_THRESHOLD", 0.5),
			SmoothingWindow: getEnvInt("CHORDS_SMOOTHING_WINDOW", 5),
			Workers:         getEnvInt("CHORDS_WORKERS", 0),
		},
		Audio: AudioConfig{
			SampleRate:           getEnvInt("AUDIO_SAMPLE_RATE", 22050),
			CaptureSampleRate:    getEnvInt("AUDIO_CAPTURE_SAMPLE_RATE", 0),
			HopLength:            getEnvInt("AUDIO_HOP_LENGTH", 512),
			WindowSize:           getEnvInt("AUDIO_WINDOW_SIZE", 2048),
			TuningFreq:           getEnvFloat("AUDIO_TUNING", 440),
			FFmpegPath:           getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:          getEnv("FFPROBE_PATH", "ffprobe"),
			DecodeTimeoutSeconds: getEnvInt("AUDIO_DECODE_TIMEOUT_SECONDS", 30),
		},
		Playback: PlaybackConfig{
			SampleRate: getEnvInt("PLAYBACK_SAMPLE_RATE", 44100),
			Volume:     getEnvFloat("PLAYBACK_VOLUME", 0.5),
			BPM:        getEnvFloat("PLAYBACK_BPM", 120),
		},
		Store: StoreConfig{
			Path: getEnv("CHORDS_DB_PATH", "chords.db"),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Backend: strings.ToLower(getEnv("LOG_BACKEND", "default")),
		},
	}, nil
}

func (c *Config) Validate() error {
	if err := c.Analyzer().Validate(); err != nil {
		return err
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("AUDIO_SAMPLE_RATE must be positive: %d", c.Audio.SampleRate)
	}
	if c.Audio.CaptureSampleRate < 0 {
		return fmt.Errorf("AUDIO_CAPTURE_SAMPLE_RATE must not be negative: %d", c.Audio.CaptureSampleRate)
	}
	if c.Audio.DecodeTimeoutSeconds <= 0 {
		return fmt.Errorf("AUDIO_DECODE_TIMEOUT_SECONDS must be positive: %d", c.Audio.DecodeTimeoutSeconds)
	}
	if c.Playback.SampleRate <= 0 {
		return fmt.Errorf("PLAYBACK_SAMPLE_RATE must be positive: %d", c.Playback.SampleRate)
	}
	if c.Playback.Volume <= 0 || c.Playback.Volume > 1 {
		return fmt.Errorf("PLAYBACK_VOLUME must be within (0, 1]: %v", c.Playback.Volume)
	}
	if c.Playback.BPM <= 0 {
		return fmt.Errorf("PLAYBACK_BPM must be positive: %v", c.Playback.BPM)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("CHORDS_DB_PATH is required")
	}
	switch c.Log.Backend {
	case "default", "zap":
	default:
		return fmt.Errorf("LOG_BACKEND must be default or zap: %q", c.Log.Backend)
	}
	return nil
}

// Analyzer maps the analysis and audio sections onto the pipeline settings
func (c *Config) Analyzer() *progression.AnalyzerConfig {
	return &progression.AnalyzerConfig{
		Threshold:       c.Analysis.Threshold,
		SmoothingWindow: c.Analysis.SmoothingWindow,
		Workers:         c.Analysis.Workers,
		WindowSize:      c.Audio.WindowSize,
		HopLength:       c.Audio.HopLength,
		TuningFreq:      c.Audio.TuningFreq,
	}
}

func (c *Config) Decoder() *transcode.DecoderConfig {
	dc := transcode.DefaultDecoderConfig()
	dc.TargetSampleRate = c.Audio.SampleRate
	dc.FFmpegPath = c.Audio.FFmpegPath
	dc.FFprobePath = c.Audio.FFprobePath
	dc.Timeout = time.Duration(c.Audio.DecodeTimeoutSeconds) * time.Second
	return dc
}

func (c *Config) Recorder() *capture.RecorderConfig {
	rc := capture.DefaultRecorderConfig()
	rc.SampleRate = c.Audio.SampleRate
	rc.DeviceSampleRate = c.Audio.CaptureSampleRate
	return rc
}

func (c *Config) Synth() *playback.SynthConfig {
	sc := playback.DefaultSynthConfig()
	sc.SampleRate = c.Playback.SampleRate
	sc.Volume = c.Playback.Volume
	return sc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
