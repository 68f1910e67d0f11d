// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes the final record set to the requested formats
// (CSV, XLSX, JSON) and writes the plain-text summary report. All files from
// one run share a single timestamp token so they are discoverable as a set.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Format is one export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormats maps format names to Formats, deduplicating while preserving
// order. An empty list means all formats. Unknown names are an error.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return []Format{FormatCSV, FormatXLSX, FormatJSON}, nil
	}

	seen := make(map[Format]bool)
	var formats []Format
	for _, name := range names {
		f := Format(strings.ToLower(strings.TrimSpace(name)))
		switch f {
		case FormatCSV, FormatXLSX, FormatJSON:
		default:
			return nil, fmt.Errorf("unknown export format %q (want csv, xlsx, or json)", name)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

const timestampLayout = "20060102_150405"

// Timestamp returns the shared filename token for one run.
func Timestamp() string {
	return time.Now().Format(timestampLayout)
}

// columns is the fixed tabular field order, identical across CSV and XLSX.
var columns = []string{
	"title", "authors", "abstract", "source",
	"source_id", "url", "published_date", "matched_keywords",
}

// WriteAll writes one file per requested format into outDir, creating the
// directory if needed. A failing format does not stop the others; failures
// come back as "format: cause" strings. The returned error is non-nil only
// when nothing could be written at all.
func WriteAll(records []types.PaperRecord, formats []Format, outDir, baseName, token string) (files []string, failed []string, err error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating output directory: %w", err)
	}
	if baseName == "" {
		baseName = "papers"
	}

	for _, f := range formats {
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s.%s", baseName, token, f))

		var writeErr error
		switch f {
		case FormatCSV:
			writeErr = writeCSV(records, path)
		case FormatXLSX:
			writeErr = writeXLSX(records, path)
		case FormatJSON:
			writeErr = writeJSON(records, path)
		}

		if writeErr != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", f, writeErr))
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 && len(failed) > 0 {
		return nil, failed, fmt.Errorf("all export formats failed: %s", strings.Join(failed, "; "))
	}
	return files, failed, nil
}

// row renders one record in the fixed column order.
func row(r types.PaperRecord) []string {
	date := ""
	if !r.Published.IsZero() {
		date = r.Published.Format("2006-01-02")
	}
	return []string{
		r.Title,
		strings.Join(r.Authors, ", "),
		r.Abstract,
		string(r.Source),
		r.SourceID,
		r.URL,
		date,
		strings.Join(r.MatchedKeywords, ", "),
	}
}

func writeCSV(records []types.PaperRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(records []types.PaperRecord, path string) error {
	if records == nil {
		records = []types.PaperRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
