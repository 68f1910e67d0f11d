// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences one scan: concurrent fetch from the configured
// catalogs, normalization into PaperRecords, title deduplication, keyword
// relevance filtering, and export.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/paper-scout/internal/export"
	"github.com/pdiddy/paper-scout/internal/source"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// Params holds the inputs for one scan.
type Params struct {
	// Query is the free-text search sent to every source.
	Query string

	// Keywords is the relevance filter. A record survives when at least
	// one keyword appears in its title or abstract.
	Keywords []string
}

// Output holds the surviving records, the per-stage statistics, and the
// files written.
type Output struct {
	Records []types.PaperRecord
	Stats   types.ScanStats
	Files   []string
}

// Run executes one scan end to end. Per-source failures degrade to zero
// records from that source and a line in Stats.SourceFailures; Run returns
// an error only for configuration mistakes (caught before any network call)
// and when every export format fails to write.
func Run(ctx context.Context, params Params, clients []source.Client, scanCfg types.ScanConfig, expCfg types.ExportConfig, w io.Writer) (Output, error) {
	if strings.TrimSpace(params.Query) == "" {
		return Output{}, fmt.Errorf("query is empty: provide a search query")
	}
	if len(params.Keywords) == 0 {
		return Output{}, fmt.Errorf("no keywords configured: an empty keyword set would filter out everything")
	}
	if len(clients) == 0 {
		return Output{}, fmt.Errorf("no sources enabled")
	}
	if expCfg.OutputDir == "" {
		return Output{}, fmt.Errorf("output directory not set")
	}
	formats, err := export.ParseFormats(expCfg.Formats)
	if err != nil {
		return Output{}, err
	}

	limit := scanCfg.SourceLimit
	if limit <= 0 {
		limit = 100
	}

	// Fan out one fetch per source. Each goroutine writes its own slot, so
	// the join is a plain WaitGroup barrier and the result order follows
	// the client list regardless of completion order.
	type fetchResult struct {
		name types.Source
		raws []source.RawItem
		err  error
	}
	results := make([]fetchResult, len(clients))

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c source.Client) {
			defer wg.Done()
			raws, err := c.Fetch(ctx, params.Query, limit)
			results[i] = fetchResult{name: c.Name(), raws: raws, err: err}
		}(i, c)
	}
	wg.Wait()

	stats := types.ScanStats{
		Fetched: make(map[types.Source]int),
		Skipped: make(map[types.Source]int),
	}

	var all []types.PaperRecord
	for _, fr := range results {
		if fr.err != nil {
			stats.Fetched[fr.name] = 0
			stats.SourceFailures = append(stats.SourceFailures, fmt.Sprintf("%s: %v", fr.name, fr.err))
			fmt.Fprintf(w, "warning: source %s failed: %v\n", fr.name, fr.err)
			continue
		}

		stats.Fetched[fr.name] = len(fr.raws)
		for _, raw := range fr.raws {
			rec, ok := raw.Normalize()
			if !ok {
				stats.Skipped[fr.name]++
				continue
			}
			all = append(all, rec)
		}
		fmt.Fprintf(w, "%s: fetched %d, skipped %d\n", fr.name, len(fr.raws), stats.Skipped[fr.name])
	}

	deduped, removed := Dedupe(all)
	stats.DupsRemoved = removed
	stats.AfterDedupe = len(deduped)

	filtered := FilterRelevant(deduped, params.Keywords)
	stats.AfterFilter = len(filtered)

	fmt.Fprintf(w, "total: %d fetched, %d after dedupe (%d duplicates removed), %d relevant\n",
		stats.TotalFetched(), stats.AfterDedupe, stats.DupsRemoved, stats.AfterFilter)

	token := export.Timestamp()
	files, failed, err := export.WriteAll(filtered, formats, expCfg.OutputDir, expCfg.BaseName, token)
	for _, f := range failed {
		fmt.Fprintf(w, "warning: export failed: %s\n", f)
	}
	if err != nil {
		return Output{Records: filtered, Stats: stats}, err
	}

	summaryPath, err := export.WriteSummary(params.Query, params.Keywords, filtered, stats, expCfg.OutputDir, expCfg.BaseName, token)
	if err != nil {
		fmt.Fprintf(w, "warning: summary report failed: %v\n", err)
	} else {
		files = append(files, summaryPath)
	}

	for _, f := range files {
		fmt.Fprintf(w, "wrote %s\n", f)
	}

	return Output{Records: filtered, Stats: stats, Files: files}, nil
}
