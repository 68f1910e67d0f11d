package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/paper-scout/pkg/types"
)

const sampleArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v1</id>
    <title>Attention Is All
 You Need</title>
    <summary>We propose a new architecture
 based solely on attention mechanisms.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v1" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/1706.03762v1" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1810.04805v2</id>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce BERT.</summary>
    <published>2018-10-11T00:00:00Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, sampleArxivXML)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := NewArxiv(ts.Client(), testScanCfg())
	items, err := c.Fetch(context.Background(), "attention", 20)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	rec, ok := items[0].Normalize()
	if !ok {
		t.Fatal("first entry should normalize")
	}
	// Wrapped lines are collapsed to single spaces.
	if rec.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Abstract != "We propose a new architecture based solely on attention mechanisms." {
		t.Errorf("Abstract = %q", rec.Abstract)
	}
	if rec.Source != types.SourceArxiv {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.SourceID != "1706.03762" {
		t.Errorf("SourceID = %q, want 1706.03762", rec.SourceID)
	}
	if rec.URL != "http://arxiv.org/abs/1706.03762v1" {
		t.Errorf("URL = %q, want the text/html link", rec.URL)
	}
	if len(rec.Authors) != 2 {
		t.Errorf("len(Authors) = %d, want 2", len(rec.Authors))
	}
	want := time.Date(2017, 6, 12, 17, 57, 34, 0, time.UTC)
	if !rec.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", rec.Published, want)
	}

	// Entry without a text/html link falls back to the entry ID.
	rec2, _ := items[1].Normalize()
	if rec2.URL != "http://arxiv.org/abs/1810.04805v2" {
		t.Errorf("URL = %q, want entry ID fallback", rec2.URL)
	}
}

func TestArxivFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := NewArxiv(ts.Client(), testScanCfg())
	if _, err := c.Fetch(context.Background(), "attention", 20); err == nil {
		t.Error("expected error on HTTP 503")
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"attention mechanisms", "all:attention+mechanisms"},
		{"blockchain", "all:blockchain"},
		{"  spaced   out  ", "all:spaced+out"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := buildArxivQuery(tt.query); got != tt.want {
				t.Errorf("buildArxivQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/1706.03762v5", "1706.03762"},
		{"http://arxiv.org/abs/2301.12345", "2301.12345"},
		{"https://arxiv.org/abs/2301.07041v2", "2301.07041"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractArxivID(tt.input); got != tt.want {
				t.Errorf("extractArxivID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArxivEntryNormalizeDropsUntitled(t *testing.T) {
	e := arxivEntry{ID: "http://arxiv.org/abs/2301.07041v1", Summary: "No title."}
	if _, ok := e.Normalize(); ok {
		t.Error("title-less entry should be dropped")
	}
}
