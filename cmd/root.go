package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olusolaa/arrayctl/internal/app"
	"github.com/olusolaa/arrayctl/internal/config"
	apperrors "github.com/olusolaa/arrayctl/internal/errors"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	reporter  string
)

var rootCmd = &cobra.Command{
	Use:   "arrayctl",
	Short: "Declarative, idempotent configuration of storage arrays.",
	Long: `arrayctl reads desired-state manifests (YAML, JSON or HCL) describing
array configuration such as NTP servers, DNS, SMTP, support contacts,
snapshot rules, protection policies and networks, and reconciles the
array to match. Running it twice changes nothing the second time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is ./arrayctl.yaml or ~/.arrayctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&reporter, "reporter", "", "Override report format (text, json)")

	_ = viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("settings.reporter", rootCmd.PersistentFlags().Lookup("reporter"))

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	rootCmd.AddCommand(newApplyCmd(), newDiffCmd(), newJobCmd(), newHistoryCmd(), newKindsCmd())
}

func initializeConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".arrayctl")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return apperrors.WrapUserFacing(err, apperrors.CodeConfigReadError,
				"failed to read config file", "Check the path passed with --config.")
		}
	}
	return nil
}

func buildApplication(cmd *cobra.Command) (*app.Application, error) {
	return app.BuildApplicationFromViper(cmd.Context(), viper.GetViper(), app.Options{
		Out:    cmd.OutOrStdout(),
		LogOut: cmd.ErrOrStderr(),
	})
}

func printError(err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.IsUserFacing {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", appErr.Message)
		if appErr.SuggestedAction != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", appErr.SuggestedAction)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
}
