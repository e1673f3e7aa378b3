package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/vidsheet/internal/logging"
)

// cliOptions are the persistent flags shared by every subcommand.
type cliOptions struct {
	jsonOutput bool
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "vidsheet",
		Short:         "Inspect the video sheet and its refresh history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is normal; real env vars always win here.
			_ = godotenv.Load()
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Write JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(newParseCommand(opts))
	rootCmd.AddCommand(newFetchCommand(opts))
	rootCmd.AddCommand(newRunsCommand(opts))
	rootCmd.AddCommand(newResetCommand(opts))

	return rootCmd
}
