package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/playback"
	"github.com/RyanBlaney/sonido-chords/report"
)

func newPlayCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "play <report.txt>",
		Short: "Plays back the chords of a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Reading chord progression from: %s\n", args[0])
			segments, err := report.ParseFile(args[0])
			if err != nil {
				return err
			}
			if len(segments) == 0 {
				return errors.New("no valid chords found in file")
			}

			fmt.Fprintf(out, "Found %d chords\n\n", len(segments))
			fmt.Fprintln(out, "Chord Progression:")
			fmt.Fprintln(out, strings.Repeat("-", 30))
			for i, seg := range segments {
				fmt.Fprintf(out, "%2d. %-4s | %.3fs\n", i+1, seg.Chord, seg.Duration)
			}

			if !yes {
				fmt.Fprintln(out, "\nReady to play! Press Enter to start (or Ctrl+C to cancel)")
				if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
			}

			ctx, cancel := interruptible(cmd)
			defer cancel()

			sink, err := newSink(a.cfg.Playback.SampleRate)
			if err != nil {
				return err
			}
			defer sink.Close()

			player := playback.NewPlayer(playback.NewSynthesizer(a.cfg.Synth()), sink)
			if err := player.Play(ctx, segments); err != nil {
				if errors.Is(err, context.Canceled) {
					fmt.Fprintln(out, "\nPlayback cancelled by user")
					return nil
				}
				return err
			}

			fmt.Fprintln(out, "Playback complete!")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Start playback without waiting for Enter")
	return cmd
}
