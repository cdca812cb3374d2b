package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Journal == "" {
			return errors.New("journal is disabled: pass --journal or set SWIPEMATCH_JOURNAL")
		}
		limit, _ := cmd.Flags().GetInt("limit")

		journal, closeJournal, err := openJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		entries, err := journal.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SEQ\tTIME\tSESSION\tKIND\tDECISION\tITEM\tOUTCOME")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Sequence, e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.SessionID, e.Kind, e.Decision, e.ItemID, e.Outcome)
		}
		return w.Flush()
	},
}

func init() {
	journalCmd.Flags().Int("limit", 20, "Number of entries to show")
}
