// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the paper-scout
// pipeline: the canonical PaperRecord, the Source enum, per-run statistics,
// and stage configuration.
package types

import "time"

// Source identifies the external catalog a record was fetched from.
type Source string

const (
	SourceSemanticScholar Source = "semantic_scholar"
	SourceArxiv           Source = "arxiv"
	SourceCore            Source = "core"
)

// Priority returns the source rank used to break ties between duplicate
// records. Lower is preferred: Semantic Scholar, then arXiv, then CORE.
func (s Source) Priority() int {
	switch s {
	case SourceSemanticScholar:
		return 1
	case SourceArxiv:
		return 2
	case SourceCore:
		return 3
	default:
		return 4
	}
}

// PaperRecord is the canonical representation of one research paper,
// independent of which catalog it came from. Records are value types:
// pipeline stages copy and return new slices rather than mutating shared
// state.
type PaperRecord struct {
	// Title is the paper title. Always non-empty after normalization;
	// title-less raw items never become records.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order. May be empty.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the paper abstract, or "" when the source has none.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Venue is the publication venue, when the source reports one.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Source identifies the catalog that produced this record.
	Source Source `json:"source" yaml:"source"`

	// SourceID is the catalog-native identifier, unique within one source.
	SourceID string `json:"source_id" yaml:"source_id"`

	// URL points at the paper's landing page, when known.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Published is the publication or preprint date; zero when unknown.
	Published time.Time `json:"published_date" yaml:"published_date"`

	// MatchedKeywords lists the scan keywords (sorted) that matched this
	// record's title or abstract. Populated by the relevance filter.
	MatchedKeywords []string `json:"matched_keywords,omitempty" yaml:"matched_keywords,omitempty"`
}
