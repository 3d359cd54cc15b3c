package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-chords/report"
	"github.com/RyanBlaney/sonido-chords/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists, shows and deletes stored analyses",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists stored analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tDURATION\tCHORDS")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					s.ID, s.CreatedAt.Format(time.DateTime), s.Source, report.FormatTime(s.TotalDuration), s.Segments)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of analyses to list (0 for all)")

	var format string
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Prints a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			st, err := store.Open(cmd.Context(), a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.Encode(cmd.OutOrStdout(), rec.Report, f)
		},
	}
	showCmd.Flags().StringVar(&format, "format", string(report.FormatText), "Output format: text, json or msgpack")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Deletes a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, deleteCmd)
	return cmd
}
