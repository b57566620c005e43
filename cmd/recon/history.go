package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/AymanRbati/ExposedInraRecon/internal/database"
	"github.com/AymanRbati/ExposedInraRecon/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs recorded with --history",
		Long: `History lists the runs recorded in the history database, newest first.

Examples:
  # List the 20 most recent runs
  recon history

  # Show the summary of run 7 as Markdown
  recon history --run 7

  # Show the summary of run 7 as JSON
  recon history --run 7 --json

  # Runs that found a given address
  recon history --address 93.184.216.34`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("run", 0, "Show the summary of this run")
	cmd.Flags().Bool("json", false, "Print the run summary as JSON (with --run)")
	cmd.Flags().String("address", "", "List the runs that collected this address")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data dir)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}
	if dbDir, _ := cmd.Flags().GetString("db-dir"); dbDir != "" { //nolint:errcheck // flag is defined above
		cfg.DBDir = dbDir
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history found (run recon with --history first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	if runID > 0 {
		summary, err := db.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		var w report.Writer = report.NewMarkdownWriter(out)
		if asJSON {
			w = report.NewJSONWriter(out, report.WithPrettyPrint())
		}
		_, err = w.Write(summary)
		return err
	}

	address, err := cmd.Flags().GetString("address")
	if err != nil {
		return err
	}
	if address != "" {
		ids, err := db.RunsWithAddress(ctx, address)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintf(out, "No run collected %s.\n", address)
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	return writeRunTable(out, runs)
}

func writeRunTable(w io.Writer, runs []database.RunMetadata) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.InputFile,
			r.Stage,
			strconv.Itoa(r.Domains),
			strconv.Itoa(r.Subdomains),
			strconv.Itoa(r.Addresses),
			strconv.Itoa(r.Scans),
			duration,
		})
	}

	return markdown.NewMarkdown(w).
		Table(markdown.TableSet{
			Header: []string{"ID", "Started", "Input", "Stage", "Domains", "Subdomains", "IPs", "Scans", "Duration"},
			Rows:   rows,
		}).
		Build()
}
