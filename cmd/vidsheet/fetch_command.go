package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
	"github.com/JonMunkholm/vidsheet/internal/source"
)

func newFetchCommand(opts *cliOptions) *cobra.Command {
	var (
		limit   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Fetch the published sheet once and print its records",
		Long: "Fetch downloads the sheet the server would refresh from. Without a URL\n" +
			"argument the SHEET_URL environment (and the other SOURCE_* settings) is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sourceConfig(args, timeout)
			if err != nil {
				return err
			}

			fetcher, err := source.NewHTTPFetcher(source.Options{
				URL:          sc.SheetURL,
				Timeout:      sc.Timeout,
				UserAgent:    sc.UserAgent,
				MaxBodySize:  sc.MaxBodySize,
				MaxRedirects: sc.MaxRedirects,
				CacheBust:    sc.CacheBust,
			})
			if err != nil {
				return err
			}

			start := time.Now()
			text, err := fetcher.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch sheet: %w", err)
			}
			slog.Info("sheet fetched", "bytes", len(text), "duration_ms", time.Since(start).Milliseconds())

			ingestOpts := ingest.DefaultOptions()
			ingestOpts.HeaderScanRows = sc.HeaderScanRows
			result := ingest.NewParser(ingestOpts).Parse(text)

			return printReport(cmd, opts, newParseReport(fetcher.Source(), len(text), result), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to print (0 for all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Fetch timeout (default SOURCE_TIMEOUT)")

	return cmd
}

// sourceConfig loads SOURCE_* settings from the environment. An explicit
// URL argument replaces SHEET_URL, which is then not required.
func sourceConfig(args []string, timeout time.Duration) (config.SourceConfig, error) {
	var sc config.SourceConfig
	if len(args) == 1 {
		sc.SheetURL = args[0]
	}
	if err := config.LoadInto(&sc); err != nil {
		return sc, fmt.Errorf("load source config: %w", err)
	}
	if len(args) == 1 {
		sc.SheetURL = args[0]
	}
	if timeout > 0 {
		sc.Timeout = timeout
	}
	return sc, nil
}
