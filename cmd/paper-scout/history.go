// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-scout/internal/runlog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List prior scans recorded in the run history",
	Long: `History lists completed scans from the run history database in the output
directory, newest first, with their queries, result counts, and output files.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("output-dir", defaultOutputDir, "directory holding the run history database")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("files", false, "also list the files each run wrote")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	outputDir := stringSetting(cmd, "output-dir", "export.output_dir")
	limit, _ := cmd.Flags().GetInt("limit")
	showFiles, _ := cmd.Flags().GetBool("files")

	store, err := runlog.Open(outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-16s  %-40s  %-7s  %-6s  %s\n",
		"ID", "Started", "Query", "Fetched", "Kept", "Failures")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))

	for _, r := range runs {
		query := r.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-16s  %-40s  %-7d  %-6d  %d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), query,
			r.FetchedTotal, r.AfterFilter, len(r.SourceFailures))

		if showFiles {
			for _, f := range r.Files {
				fmt.Fprintf(os.Stdout, "      %s\n", f)
			}
		}
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}
