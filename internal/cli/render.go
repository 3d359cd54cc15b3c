package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/logging"
	"github.com/RyanBlaney/sonido-chords/playback"
	"github.com/RyanBlaney/sonido-chords/report"
)

func newRenderCmd(a *app) *cobra.Command {
	var wavPath, midiPath string
	var bpm float64

	cmd := &cobra.Command{
		Use:   "render <report.txt>",
		Short: "Renders the chords of a saved report to WAV and/or MIDI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wavPath == "" && midiPath == "" {
				return errors.New("nothing to render: pass --wav and/or --midi")
			}
			if !cmd.Flags().Changed("bpm") {
				bpm = a.cfg.Playback.BPM
			}

			segments, err := report.ParseFile(args[0])
			if err != nil {
				return err
			}

			if wavPath != "" {
				synth := playback.NewSynthesizer(a.cfg.Synth())
				if err := playback.RenderWAV(wavPath, segments, synth); err != nil {
					return err
				}
				a.logger.Info("WAV rendered", logging.Fields{"path": wavPath, "chords": len(segments)})
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", wavPath)
			}

			if midiPath != "" {
				if err := playback.RenderMIDI(midiPath, segments, bpm); err != nil {
					return err
				}
				a.logger.Info("MIDI rendered", logging.Fields{"path": midiPath, "chords": len(segments), "bpm": bpm})
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", midiPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&wavPath, "wav", "", "Write the progression as a WAV file")
	cmd.Flags().StringVar(&midiPath, "midi", "", "Write the progression as a MIDI file")
	cmd.Flags().Float64Var(&bpm, "bpm", 120, "MIDI tempo")
	return cmd
}
