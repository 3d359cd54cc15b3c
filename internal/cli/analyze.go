package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/progression"
	"github.com/RyanBlaney/sonido-chords/report"
	"github.com/RyanBlaney/sonido-chords/store"
	"github.com/RyanBlaney/sonido-chords/transcode"
)

type outputOptions struct {
	format string
	output string
	save   bool
	store  bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", report.DefaultOutputFile, "Output file for results")
	cmd.Flags().BoolVarP(&o.save, "save", "s", false, "Save results to output file")
	cmd.Flags().StringVar(&o.format, "format", string(report.FormatText), "Output format: text, json or msgpack")
	cmd.Flags().BoolVar(&o.store, "store", false, "Record the analysis in the history database")
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyzes an audio file for its chord progression",
		Long:  `Analyzes an audio file (mp3, wav, flac, m4a) for its chord progression and prints the report.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			format, err := report.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file '%s' not found", path)
			}
			if !transcode.IsSupportedExtension(path) {
				a.logger.Warn("File doesn't appear to be an audio file. Proceeding anyway...", logging.Fields{"path": path})
			}

			ctx, cancel := interruptible(cmd)
			defer cancel()

			audio, err := transcode.NewDecoder(a.cfg.Decoder()).DecodeFile(ctx, path)
			if err != nil {
				return fmt.Errorf("error during analysis: %w", err)
			}

			return a.analyzeAndReport(ctx, cmd, path, audio, format, opts)
		},
	}

	opts.register(cmd)
	return cmd
}

// analyzeAndReport runs the pipeline on decoded audio and emits the report
// in every way the options ask for
func (a *app) analyzeAndReport(ctx context.Context, cmd *cobra.Command, source string, audio *transcode.AudioData, format report.Format, opts *outputOptions) error {
	analyzer, err := progression.NewAnalyzer(a.cfg.Analyzer())
	if err != nil {
		return err
	}
	analyzer.WithObserver(progression.NewLoggingObserver(logging.GetGlobalLogger()))

	a.logger.Info("Loading audio file", logging.Fields{
		"source":   source,
		"duration": audio.Seconds(),
	})

	result, err := analyzer.AnalyzeAudio(ctx, audio)
	if err != nil {
		return fmt.Errorf("error during analysis: %w", err)
	}

	rep := report.FromResult(source, result)
	if err := report.Encode(cmd.OutOrStdout(), rep, format); err != nil {
		return err
	}

	if opts.save {
		if err := report.SaveFile(opts.output, rep); err != nil {
			return err
		}
	}

	if opts.store {
		st, err := store.Open(ctx, a.cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.Save(ctx, store.Record{Report: rep})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved analysis %s\n", id)
	}
	return nil
}
