// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/internal/runlog"
	"github.com/pdiddy/paper-scout/internal/secrets"
	"github.com/pdiddy/paper-scout/internal/source"
	"github.com/pdiddy/paper-scout/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "paper-scout/0.1"
	defaultOutputDir = "research_papers"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan paper catalogs and export the matching records",
	Long: `Scan queries the enabled catalogs for the search query, normalizes and
deduplicates the results across sources, keeps the records matching at least
one keyword, and writes them to the requested formats plus a summary report.

A source that fails contributes zero records; the run continues and the
failure is noted in the summary. The CORE catalog is skipped silently unless
an API key is available (.secrets/core-api-key or config).`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("query", "", "free-text search query (required)")
	scanCmd.Flags().StringSlice("keywords", nil, "relevance keywords, comma-separated (required)")
	scanCmd.Flags().Int("limit", 100, "maximum results requested per source")
	scanCmd.Flags().StringSlice("formats", []string{"csv", "xlsx", "json"}, "export formats: csv, xlsx, json")
	scanCmd.Flags().String("output-dir", defaultOutputDir, "directory for export files")
	scanCmd.Flags().String("base-name", "papers", "filename stem shared by the export files")
	scanCmd.Flags().String("manifest", "", "also save a YAML scan manifest to this path")
	scanCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	scanCmd.Flags().Bool("semantic-scholar", true, "query Semantic Scholar")
	scanCmd.Flags().Bool("arxiv", true, "query arXiv")
	scanCmd.Flags().Bool("core", true, "query CORE")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	keywords, _ := cmd.Flags().GetStringSlice("keywords")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	scanCfg := types.ScanConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		SourceLimit:           intSetting(cmd, "limit", "scan.source_limit"),
		SemanticScholarAPIKey: secrets.Get(loadedSecrets, "semantic-scholar-api-key", viper.GetString("scan.semantic_scholar_api_key")),
		CoreAPIKey:            secrets.Get(loadedSecrets, "core-api-key", viper.GetString("scan.core_api_key")),
	}
	scanCfg.EnableSemanticScholar, _ = cmd.Flags().GetBool("semantic-scholar")
	scanCfg.EnableArxiv, _ = cmd.Flags().GetBool("arxiv")
	scanCfg.EnableCore, _ = cmd.Flags().GetBool("core")

	formats, _ := cmd.Flags().GetStringSlice("formats")
	expCfg := types.ExportConfig{
		OutputDir: stringSetting(cmd, "output-dir", "export.output_dir"),
		BaseName:  stringSetting(cmd, "base-name", "export.base_name"),
		Formats:   formats,
	}

	params := pipeline.Params{Query: query, Keywords: keywords}

	httpClient := &http.Client{Timeout: scanCfg.Timeout}
	clients := source.Enabled(httpClient, scanCfg)

	startedAt := time.Now()
	out, err := pipeline.Run(cmd.Context(), params, clients, scanCfg, expCfg, os.Stdout)
	if err != nil {
		return err
	}

	recordRun(cmd, expCfg.OutputDir, startedAt, params, out)

	if manifestPath, _ := cmd.Flags().GetString("manifest"); manifestPath != "" {
		if err := pipeline.WriteManifest(manifestPath, params, scanCfg.SourceLimit, out); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		fmt.Printf("wrote %s\n", manifestPath)
	}

	return nil
}

// recordRun appends the run to the history database. History is bookkeeping;
// a failure here must not fail a scan that already produced its files.
func recordRun(cmd *cobra.Command, outputDir string, startedAt time.Time, params pipeline.Params, out pipeline.Output) {
	store, err := runlog.Open(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	_, err = store.Record(cmd.Context(), runlog.Run{
		StartedAt:      startedAt,
		Query:          params.Query,
		Keywords:       params.Keywords,
		FetchedTotal:   out.Stats.TotalFetched(),
		AfterDedupe:    out.Stats.AfterDedupe,
		AfterFilter:    out.Stats.AfterFilter,
		SourceFailures: out.Stats.SourceFailures,
		Files:          out.Files,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}

// stringSetting resolves a string option: an explicitly set flag wins,
// then the config file, then the flag default.
func stringSetting(cmd *cobra.Command, flag, configKey string) string {
	v, _ := cmd.Flags().GetString(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(configKey) {
		return viper.GetString(configKey)
	}
	return v
}

// intSetting resolves an int option with the same precedence as stringSetting.
func intSetting(cmd *cobra.Command, flag, configKey string) int {
	v, _ := cmd.Flags().GetInt(flag)
	if !cmd.Flags().Changed(flag) && viper.IsSet(configKey) {
		return viper.GetInt(configKey)
	}
	return v
}
