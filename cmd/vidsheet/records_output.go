package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/vidsheet/internal/core"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

const maxTitleWidth = 48

// parseReport is the JSON shape of parse and fetch output.
type parseReport struct {
	Source             string `json:"source"`
	Bytes              int    `json:"bytes"`
	LastDataUpdateText string `json:"last_data_update_text"`
	ingest.Result
}

func newParseReport(source string, size int, result ingest.Result) parseReport {
	latest, ok := core.LatestDataUpdate(result.Records, time.Local)
	return parseReport{
		Source:             source,
		Bytes:              size,
		LastDataUpdateText: core.FormatDataUpdate(latest, ok),
		Result:             result,
	}
}

// printReport writes a summary followed by up to limit records. A limit
// of zero prints every record.
func printReport(cmd *cobra.Command, opts *cliOptions, report parseReport, limit int) error {
	if opts.jsonOutput {
		return writeJSON(cmd, report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source:           %s (%s)\n", report.Source, humanize.Bytes(uint64(report.Bytes)))
	fmt.Fprintf(out, "Header row:       %d\n", report.HeaderRow)
	fmt.Fprintf(out, "Records:          %s\n", humanize.Comma(int64(len(report.Records))))
	fmt.Fprintf(out, "Dropped rows:     %s\n", humanize.Comma(int64(report.Dropped)))
	fmt.Fprintf(out, "Last data update: %s\n", report.LastDataUpdateText)

	records := report.Records
	if len(records) == 0 {
		return nil
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(rec.VideoTitle, maxTitleWidth),
			rec.ChannelName,
			rec.PublishDate,
			humanize.Commaf(rec.Views),
			humanize.Commaf(rec.Likes),
			humanize.Commaf(rec.Comments),
		})
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(out,
		[]string{"#", "Title", "Channel", "Published", "Views", "Likes", "Comments"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	if len(records) < len(report.Records) {
		fmt.Fprintf(out, "%s more records not shown (use --limit 0)\n",
			humanize.Comma(int64(len(report.Records)-len(records))))
	}
	return nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
