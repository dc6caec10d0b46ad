package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent reconciliation outcomes from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApplication(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintln(tw, "Time\tRun\tKind\tResource\tVerdict\tChanged\tResult")
			for _, e := range entries {
				result := e.Message
				if e.ErrorCode != "" {
					result = e.ErrorCode + ": " + e.Message
				}
				fmt.Fprintf(tw, "%s\t%.8s\t%s\t%s\t%s\t%t\t%s\n",
					e.RecordedAt.Format(time.RFC3339), e.RunID, e.Kind, e.Key, e.Verdict, e.Changed, result)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	return cmd
}
