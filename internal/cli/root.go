package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/capture"
	"github.com/RyanBlaney/sonido-chords/internal/config"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/playback"
)

// device constructors, replaced in tests
var (
	newSink = func(sampleRate int) (playback.Sink, error) {
		return playback.NewPortAudioSink(sampleRate)
	}
	newSource = func(cfg *capture.RecorderConfig) (capture.Source, error) {
		return capture.NewPortAudioSource(cfg)
	}
)

// app is the state shared by every subcommand once the root has loaded it
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	verbose bool
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sonido-chords",
		Short:         "Chord progression detection",
		Long:          `Detects the chord progression of a recording with chromagram template matching, and plays or renders it back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if z, ok := logging.GetGlobalLogger().(*logging.ZapLogger); ok {
				z.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newRecordCmd(a),
		newPlayCmd(a),
		newRenderCmd(a),
		newHistoryCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if a.verbose {
		level = logging.DebugLevel
	}

	var logger logging.Logger
	switch cfg.Log.Backend {
	case "zap":
		z, err := logging.NewZapLogger(a.verbose)
		if err != nil {
			return err
		}
		logger = z
	default:
		// stdout carries the report
		logger = logging.NewWriterLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	}
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	a.cfg = cfg
	a.logger = logger.WithFields(logging.Fields{"component": "cli"})
	return nil
}

// interruptible cancels the command's context on Ctrl+C
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
