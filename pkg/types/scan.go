// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScanStats holds the per-stage counts collected during one scan run. The
// summary report and the run log are both rendered from it.
type ScanStats struct {
	// Fetched counts raw items returned by each source.
	Fetched map[Source]int `json:"fetched" yaml:"fetched"`

	// Skipped counts raw items dropped during normalization (no usable
	// title), per source.
	Skipped map[Source]int `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// SourceFailures lists sources that returned no results because of a
	// network, auth, or rate-limit failure, formatted "source: cause".
	SourceFailures []string `json:"source_failures,omitempty" yaml:"source_failures,omitempty"`

	// DupsRemoved is the number of records collapsed by deduplication.
	DupsRemoved int `json:"dups_removed" yaml:"dups_removed"`

	// AfterDedupe is the record count surviving deduplication.
	AfterDedupe int `json:"after_dedupe" yaml:"after_dedupe"`

	// AfterFilter is the record count surviving the relevance filter.
	AfterFilter int `json:"after_filter" yaml:"after_filter"`
}

// TotalFetched returns the raw item count across all sources.
func (s ScanStats) TotalFetched() int {
	total := 0
	for _, n := range s.Fetched {
		total += n
	}
	return total
}
