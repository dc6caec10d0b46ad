package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/arrayctl/internal/app"
)

// errFailedOutcomes makes the exit status non-zero once the report is printed.
var errFailedOutcomes = errors.New("one or more resources failed to reconcile")

func newApplyCmd() *cobra.Command {
	var (
		files    []string
		check    bool
		simulate bool
	)
	cmd := &cobra.Command{
		Use:   "apply -f <manifest>...",
		Short: "Reconcile the array with one or more manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("check") {
				viper.Set("settings.check_mode", check)
			}
			if cmd.Flags().Changed("simulate") {
				viper.Set("settings.simulate", simulate)
			}
			return runApply(cmd, files)
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Manifest file or directory (repeatable)")
	cmd.Flags().BoolVar(&check, "check", false, "Report what would change without modifying the array")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Run against an in-memory array seeded with factory defaults")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var (
		files    []string
		simulate bool
	)
	cmd := &cobra.Command{
		Use:   "diff -f <manifest>...",
		Short: "Show what apply would change (apply --check)",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("settings.check_mode", true)
			if cmd.Flags().Changed("simulate") {
				viper.Set("settings.simulate", simulate)
			}
			return runApply(cmd, files)
		},
	}
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Manifest file or directory (repeatable)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Run against an in-memory array seeded with factory defaults")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runApply(cmd *cobra.Command, files []string) error {
	a, err := buildApplication(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	outcomes, err := a.Apply(cmd.Context(), files)
	if err != nil {
		return err
	}
	if app.Summarize(outcomes).Failed > 0 {
		return errFailedOutcomes
	}
	return nil
}
