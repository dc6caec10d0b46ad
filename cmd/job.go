package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJobCmd() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "job <id>",
		Short: "Show an array job, optionally waiting for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApplication(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.Job(cmd.Context(), args[0], wait)
			if rec.ID != "" {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job:      %s\n", rec.ID)
				fmt.Fprintf(out, "Phase:    %s\n", rec.Phase)
				fmt.Fprintf(out, "Progress: %d%%\n", rec.Progress)
				if rec.ResourceID != "" {
					fmt.Fprintf(out, "Resource: %s %s\n", rec.ResourceKind, rec.ResourceID)
				}
				if rec.Error != nil {
					fmt.Fprintf(out, "Error:    %s %s\n", rec.Error.Code, rec.Error.Message)
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the job completes or fails")
	return cmd
}
