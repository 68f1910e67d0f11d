// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// WriteSummary writes the human-readable report for one run: per-source
// fetch counts, source failures, dedupe and filter totals, the covered year
// range, and the retained titles with their matched keywords. It shares the
// run's timestamp token with the other export files.
func WriteSummary(query string, keywords []string, records []types.PaperRecord, stats types.ScanStats, outDir, baseName, token string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if baseName == "" {
		baseName = "papers"
	}

	path := filepath.Join(outDir, fmt.Sprintf("%s_%s_summary.txt", baseName, token))

	var b strings.Builder
	b.WriteString("Research Paper Summary\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Query: %s\n", query)
	fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(keywords, ", "))

	b.WriteString("Fetched per source:\n")
	for _, src := range sortedSources(stats.Fetched) {
		line := fmt.Sprintf("- %s: %d", src, stats.Fetched[src])
		if skipped := stats.Skipped[src]; skipped > 0 {
			line += fmt.Sprintf(" (%d skipped)", skipped)
		}
		b.WriteString(line + "\n")
	}

	if len(stats.SourceFailures) > 0 {
		b.WriteString("\nSource failures:\n")
		for _, f := range stats.SourceFailures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	fmt.Fprintf(&b, "\nAfter dedupe: %d (%d duplicates removed)\n", stats.AfterDedupe, stats.DupsRemoved)
	fmt.Fprintf(&b, "After filtering: %d\n", stats.AfterFilter)

	if min, max, ok := yearRange(records); ok {
		fmt.Fprintf(&b, "Years covered: %d to %d\n", min, max)
	}

	if len(records) > 0 {
		b.WriteString("\nRetained papers:\n")
		for _, r := range records {
			fmt.Fprintf(&b, "- %s [%s]\n", r.Title, strings.Join(r.MatchedKeywords, ", "))
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}

// sortedSources returns the map keys in the fixed source priority order so
// the report is stable across runs.
func sortedSources(counts map[types.Source]int) []types.Source {
	sources := make([]types.Source, 0, len(counts))
	for src := range counts {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})
	return sources
}

// yearRange returns the earliest and latest publication year among records
// with a known date.
func yearRange(records []types.PaperRecord) (min, max int, ok bool) {
	for _, r := range records {
		if r.Published.IsZero() {
			continue
		}
		y := r.Published.Year()
		if !ok || y < min {
			min = y
		}
		if !ok || y > max {
			max = y
		}
		ok = true
	}
	return min, max, ok
}
