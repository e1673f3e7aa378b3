package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

func newRunsCommand(opts *cliOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent refresh runs from the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc config.StoreConfig
			if err := config.LoadInto(&sc); err != nil {
				return err
			}
			if err := sc.Validate(); err != nil {
				return err
			}

			st, err := store.Open(cmd.Context(), sc)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			if opts.jsonOutput {
				if runs == nil {
					runs = []store.Run{}
				}
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No refresh runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID.String()[:8],
					run.FetchedAt.Local().Format(time.DateTime),
					humanize.Time(run.FetchedAt),
					run.Trigger,
					run.Status,
					humanize.Comma(int64(run.RecordCount)),
					humanize.Comma(int64(run.Dropped)),
					run.Duration.Round(time.Millisecond).String(),
					truncate(oneLine(run.Error), maxTitleWidth),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Run", "Fetched", "Age", "Trigger", "Status", "Records", "Dropped", "Took", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")

	return cmd
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
