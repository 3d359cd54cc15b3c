package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/capture"
	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/report"
	"github.com/RyanBlaney/sonido-chords/transcode"
)

func newRecordCmd(a *app) *cobra.Command {
	opts := &outputOptions{}
	var seconds float64
	var wavPath string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Records from the microphone and analyzes the take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			ctx, cancel := interruptible(cmd)
			defer cancel()

			rc := a.cfg.Recorder()
			source, err := newSource(rc)
			if err != nil {
				return err
			}
			defer source.Close()

			duration := time.Duration(seconds * float64(time.Second))
			fmt.Fprintf(cmd.ErrOrStderr(), "Recording for %s.\n", duration)

			audio, err := capture.NewRecorder(rc, source).Record(ctx, duration)
			if err != nil {
				return err
			}

			if wavPath != "" {
				if err := saveWAV(wavPath, audio); err != nil {
					return err
				}
				a.logger.Info("Recording saved", logging.Fields{"path": wavPath})
			}

			return a.analyzeAndReport(ctx, cmd, "microphone", audio, format, opts)
		},
	}

	cmd.Flags().Float64Var(&seconds, "seconds", 5, "Recording length in seconds")
	cmd.Flags().StringVar(&wavPath, "wav", "", "Also save the recording as a WAV file")
	opts.register(cmd)
	return cmd
}

func saveWAV(path string, audio *transcode.AudioData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}
	if err := transcode.EncodeWAV(f, audio.PCM, audio.SampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
