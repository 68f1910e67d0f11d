package pipeline

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pdiddy/paper-scout/pkg/types"
)

func TestDedupeByNormalizedTitle(t *testing.T) {
	records := []types.PaperRecord{
		{Title: "Deep Learning for NLP", Source: types.SourceArxiv, SourceID: "2301.07041", Abstract: "Short."},
		{Title: "deep   learning for nlp!", Source: types.SourceSemanticScholar, SourceID: "abc123", Abstract: "A considerably longer abstract."},
		{Title: "An Unrelated Paper", Source: types.SourceArxiv, SourceID: "2301.99999"},
	}

	kept, removed := Dedupe(records)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(kept) != 2 {
		t.Fatalf("len(kept) = %d, want 2", len(kept))
	}
	// The duplicate with the longer abstract survives, in the first
	// occurrence's position.
	if kept[0].SourceID != "abc123" {
		t.Errorf("survivor SourceID = %q, want %q (longer abstract)", kept[0].SourceID, "abc123")
	}
	if kept[1].Title != "An Unrelated Paper" {
		t.Errorf("kept[1].Title = %q, input order not preserved", kept[1].Title)
	}
}

func TestDedupeTieBreakSourcePriority(t *testing.T) {
	records := []types.PaperRecord{
		{Title: "Paper A", Source: types.SourceCore, SourceID: "9001", Abstract: "Same length."},
		{Title: "Paper A", Source: types.SourceSemanticScholar, SourceID: "s2-id", Abstract: "Same length."},
	}

	kept, _ := Dedupe(records)
	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].Source != types.SourceSemanticScholar {
		t.Errorf("survivor Source = %q, want semantic_scholar on equal abstracts", kept[0].Source)
	}
}

func TestDedupeFullTieKeepsFirst(t *testing.T) {
	records := []types.PaperRecord{
		{Title: "Paper A", Source: types.SourceArxiv, SourceID: "first", Abstract: "Same."},
		{Title: "Paper A", Source: types.SourceArxiv, SourceID: "second", Abstract: "Same."},
	}

	kept, _ := Dedupe(records)
	if len(kept) != 1 {
		t.Fatalf("len(kept) = %d, want 1", len(kept))
	}
	if kept[0].SourceID != "first" {
		t.Errorf("survivor SourceID = %q, want first encountered", kept[0].SourceID)
	}
}

func TestDedupeNoDuplicates(t *testing.T) {
	records := []types.PaperRecord{
		{Title: "Paper A", Source: types.SourceArxiv, SourceID: "1"},
		{Title: "Paper B", Source: types.SourceArxiv, SourceID: "2"},
	}

	kept, removed := Dedupe(records)
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if len(kept) != 2 {
		t.Errorf("len(kept) = %d, want 2", len(kept))
	}
}

func TestDedupeIdempotent(t *testing.T) {
	var records []types.PaperRecord
	for i := 0; i < 10; i++ {
		records = append(records, types.PaperRecord{
			Title:    fmt.Sprintf("Paper %d", i%4),
			Source:   types.SourceArxiv,
			SourceID: fmt.Sprintf("id-%d", i),
			Abstract: fmt.Sprintf("Abstract %d", i),
		})
	}

	once, _ := Dedupe(records)
	twice, removed := Dedupe(once)

	if removed != 0 {
		t.Errorf("second pass removed = %d, want 0", removed)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Dedupe is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
	if len(once) > len(records) {
		t.Errorf("output larger than input: %d > %d", len(once), len(records))
	}
}

func TestDedupeDeterministic(t *testing.T) {
	records := []types.PaperRecord{
		{Title: "Alpha", Source: types.SourceArxiv, SourceID: "a1"},
		{Title: "Beta", Source: types.SourceSemanticScholar, SourceID: "b1"},
		{Title: "alpha", Source: types.SourceCore, SourceID: "a2", Abstract: "Longer one."},
		{Title: "Gamma", Source: types.SourceArxiv, SourceID: "g1"},
		{Title: "beta!", Source: types.SourceArxiv, SourceID: "b2"},
	}

	first, _ := Dedupe(records)
	for i := 0; i < 20; i++ {
		again, _ := Dedupe(records)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestDedupeKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Deep Learning for NLP", "deep learning for nlp"},
		{"deep   learning for nlp!", "deep learning for nlp"},
		{"  BERT:  Pre-training  ", "bert pretraining"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := dedupeKey(tt.input); got != tt.want {
				t.Errorf("dedupeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
