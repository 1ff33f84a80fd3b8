package anomac

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/donyusuf12/namada/journal"
	"github.com/donyusuf12/namada/submit"
)

func buildHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.Open(a.cfg.JournalPath())
			if err != nil {
				return err
			}
			defer j.Close()

			recs, err := j.List(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tKIND\tMODE\tHASH\tSTATUS")
			for _, rec := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.Time.Format(time.RFC3339), rec.Kind, rec.Mode, rec.Hash, status(rec))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show (0 for all)")

	return cmd
}

func status(rec *journal.Record) string {
	switch {
	case rec.Error != "":
		return "failed: " + rec.Error
	case rec.Confirmed:
		return "confirmed at " + rec.Height
	case rec.Mode == submit.DryRun.String():
		return fmt.Sprintf("simulated code=%d", rec.Code)
	default:
		return "pending"
	}
}
