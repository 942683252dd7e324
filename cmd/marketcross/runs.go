package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the most recent analysis runs from the run log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Database.SQLitePath == "" {
				return fmt.Errorf("no run log configured (database.sqlite_path or SQLITE_PATH)")
			}
			rows, err := a.recorder.RecentRuns(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSYMBOL\tPROVIDER\tSMA\tDAYS\tOUTCOME\tPOINTS\tEVENTS\tMS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%s\t%d\t%d\t%d\n",
					r.Timestamp.Format(time.DateTime), r.Symbol, r.Provider, r.ShortPeriod, r.LongPeriod,
					r.WindowDays, r.Outcome, r.Points, r.Events, r.DurationMS)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}
