// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the source clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every request
	// (e.g. "paper-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScanConfig holds settings for the fetch stage of a scan.
type ScanConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourceLimit is the maximum number of results requested from each
	// source (default 100).
	SourceLimit int `json:"source_limit" yaml:"source_limit"`

	// EnableSemanticScholar controls whether the Semantic Scholar client runs.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// EnableArxiv controls whether the arXiv client runs.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableCore controls whether the CORE client runs. Even when enabled,
	// the client stays silent unless CoreAPIKey is set.
	EnableCore bool `json:"enable_core" yaml:"enable_core"`

	// SemanticScholarAPIKey is an optional key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// CoreAPIKey authenticates against the CORE v3 API. Without it the
	// CORE client skips network calls entirely.
	CoreAPIKey string `json:"core_api_key,omitempty" yaml:"core_api_key,omitempty"`
}

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// OutputDir is the directory export files are written to. Created on
	// demand.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// BaseName is the filename stem shared by all files from one run
	// (e.g. "papers" yields papers_20260825_143000.csv).
	BaseName string `json:"base_name" yaml:"base_name"`

	// Formats lists the requested export formats: "csv", "xlsx", "json".
	Formats []string `json:"formats" yaml:"formats"`
}
