package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/marinecrawl/internal/database"
	"github.com/nao1215/marinecrawl/internal/pipeline"
	"github.com/nao1215/marinecrawl/internal/report"
)

// Trend labels of a pass comparison.
const (
	trendUp        = "up"
	trendDown      = "down"
	trendUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs and compare the latest two",
		Long: `History lists the runs recorded by 'marinecrawl crawl' and compares the
record and error counts of each pass between its two most recent runs.

A drop in records or a rise in errors usually means the site markup changed
or the proxy route is blocked.

Examples:
  # List the last 10 runs and the per-pass comparison
  marinecrawl history

  # Show the stored report of run 7 as Markdown
  marinecrawl history --run 7 --format markdown`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of runs listed (0 = all)")
	cmd.Flags().Int64("run", 0, "Print the stored report of this run id")
	cmd.Flags().StringP("format", "f", report.FormatText, "Report format used with --run")
	cmd.Flags().String("history-dir", "", "Directory of the run history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("history-dir") {
		if cfg.HistoryDir, err = cmd.Flags().GetString("history-dir"); err != nil {
			return err
		}
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.HistoryDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet. Run 'marinecrawl crawl' first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if runID > 0 {
		return printRunReport(ctx, db, runID, format, out)
	}
	if err := listRuns(ctx, db, limit, out); err != nil {
		return err
	}
	return comparePasses(ctx, db, out)
}

// printRunReport writes the stored report of one run.
func printRunReport(ctx context.Context, db *database.HistoryDB, runID int64, format string, out io.Writer) error {
	runReport, err := db.GetRunReport(ctx, runID)
	if err != nil {
		return err
	}
	w, err := report.NewWriter(format, out)
	if err != nil {
		return err
	}
	_, err = w.Write(runReport)
	return err
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, db *database.HistoryDB, limit int, out io.Writer) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Runs")
	t.AppendHeader(table.Row{"ID", "Started", "Duration", "Records", "Errors", "Status"})
	for _, r := range runs {
		duration := "-"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		status := "complete"
		switch {
		case r.FinishedAt.IsZero():
			status = "unfinished"
		case r.Cancelled:
			status = "cancelled"
		}
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			r.TotalRecords,
			r.TotalErrors,
			status,
		})
	}
	t.Render()
	fmt.Fprintln(out)
	return nil
}

// comparePasses prints, for every pass, the counts of its two latest runs.
func comparePasses(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Latest run per pass")
	t.AppendHeader(table.Row{"Pass", "Run", "Status", "Records", "Change", "Errors", "Change"})

	rows := 0
	for _, pass := range pipeline.PassNames() {
		history, err := db.LatestPassResults(ctx, pass, 2)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			continue
		}

		latest := history[0].Result
		recordsChange, errorsChange := "-", "-"
		if len(history) > 1 {
			previous := history[1].Result
			recordsChange = formatChange(latest.Records, previous.Records)
			errorsChange = formatChange(latest.Errors, previous.Errors)
		}
		t.AppendRow(table.Row{
			pass,
			history[0].RunID,
			string(latest.Status),
			latest.Records,
			recordsChange,
			latest.Errors,
			errorsChange,
		})
		rows++
	}

	if rows == 0 {
		return nil
	}
	t.Render()
	return nil
}

// formatChange renders the difference between two counts with its trend.
func formatChange(latest, previous int) string {
	diff := latest - previous
	switch {
	case diff > 0:
		return "+" + strconv.Itoa(diff) + " (" + trendUp + ")"
	case diff < 0:
		return strconv.Itoa(diff) + " (" + trendDown + ")"
	default:
		return trendUnchanged
	}
}
