// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// Manifest is the on-disk YAML record of one scan: its parameters, summary
// statistics, and the final record set. A saved manifest can be reloaded
// later without re-querying the APIs.
type Manifest struct {
	Scan    ManifestParams      `yaml:"scan"`
	Summary ManifestSummary     `yaml:"summary"`
	Records []types.PaperRecord `yaml:"records"`
}

// ManifestParams stores the scan inputs in serializable form.
type ManifestParams struct {
	Query       string   `yaml:"query"`
	Keywords    []string `yaml:"keywords"`
	SourceLimit int      `yaml:"source_limit"`
}

// ManifestSummary stores the run statistics, output files, and a timestamp.
type ManifestSummary struct {
	Stats     types.ScanStats `yaml:"stats"`
	Files     []string        `yaml:"files,omitempty"`
	Timestamp time.Time       `yaml:"timestamp"`
}

// WriteManifest saves the scan parameters and output to a YAML file.
func WriteManifest(path string, params Params, limit int, out Output) error {
	m := Manifest{
		Scan: ManifestParams{
			Query:       params.Query,
			Keywords:    params.Keywords,
			SourceLimit: limit,
		},
		Summary: ManifestSummary{
			Stats:     out.Stats,
			Files:     out.Files,
			Timestamp: time.Now(),
		},
		Records: out.Records,
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously saved scan manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
