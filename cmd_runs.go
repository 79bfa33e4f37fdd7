package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/habitat/store"
)

func newRunsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs <db>",
		Short: "List recent runs recorded in a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Runs(limit)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			for _, r := range runs {
				started := r.StartedAt
				if t, err := time.Parse(time.RFC3339, r.StartedAt); err == nil {
					started = humanize.Time(t)
				}
				reason := r.StopReason
				if reason == "" {
					reason = "unfinished"
				}
				fmt.Fprintf(out, "%4d  %-12s %8s ticks  %5d creatures  %5d dead  seed %d  %s\n",
					r.ID, reason, humanize.Comma(int64(r.Ticks)), r.Population, r.Dead, r.Seed, started)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return cmd
}
