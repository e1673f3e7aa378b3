package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/vidsheet/internal/ingest"
	"github.com/JonMunkholm/vidsheet/internal/source"
)

func newParseCommand(opts *cliOptions) *cobra.Command {
	var (
		limit       int
		scanRows    int
		maxBodySize int64
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a local CSV export and print its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := source.FileFetcher{Path: args[0], MaxBodySize: maxBodySize}
			text, err := fetcher.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			ingestOpts := ingest.DefaultOptions()
			ingestOpts.HeaderScanRows = scanRows
			result := ingest.NewParser(ingestOpts).Parse(text)

			return printReport(cmd, opts, newParseReport(fetcher.Source(), len(text), result), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to print (0 for all)")
	cmd.Flags().IntVar(&scanRows, "header-scan-rows", ingest.DefaultHeaderScanRows, "Rows searched for the header")
	cmd.Flags().Int64Var(&maxBodySize, "max-size", 20<<20, "Largest file accepted in bytes")

	return cmd
}
