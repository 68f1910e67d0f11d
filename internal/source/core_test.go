package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/paper-scout/pkg/types"
)

const sampleCoreJSON = `{
  "totalHits": 2,
  "results": [
    {
      "id": 42168354,
      "title": "Blockchain Interoperability Survey",
      "abstract": "We survey cross-chain protocols.",
      "downloadUrl": "https://core.ac.uk/download/42168354.pdf",
      "publishedDate": "2021-04-15T00:00:00",
      "yearPublished": 2021,
      "authors": [{"name": "Grace Hopper"}],
      "links": [
        {"type": "download", "url": "https://core.ac.uk/download/42168354.pdf"},
        {"type": "display", "url": "https://core.ac.uk/works/42168354"}
      ]
    },
    {
      "id": 99,
      "title": "Untitled Placeholder",
      "yearPublished": 2019
    }
  ]
}`

func TestCoreFetchWithoutKeySkipsNetwork(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("CORE client must not touch the network without an API key")
	}))
	defer ts.Close()

	old := coreAPIBase
	coreAPIBase = ts.URL
	defer func() { coreAPIBase = old }()

	c := NewCore(ts.Client(), testScanCfg()) // no CoreAPIKey
	items, err := c.Fetch(context.Background(), "blockchain", 20)
	if err != nil {
		t.Fatalf("keyless Fetch must not error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestCoreFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer ck_test" {
			t.Errorf("Authorization = %q, want Bearer ck_test", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleCoreJSON)
	}))
	defer ts.Close()

	old := coreAPIBase
	coreAPIBase = ts.URL
	defer func() { coreAPIBase = old }()

	cfg := testScanCfg()
	cfg.CoreAPIKey = "ck_test"
	c := NewCore(ts.Client(), cfg)

	items, err := c.Fetch(context.Background(), "blockchain", 20)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	rec, ok := items[0].Normalize()
	if !ok {
		t.Fatal("first work should normalize")
	}
	if rec.Source != types.SourceCore {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.SourceID != "42168354" {
		t.Errorf("SourceID = %q, want 42168354", rec.SourceID)
	}
	if rec.URL != "https://core.ac.uk/works/42168354" {
		t.Errorf("URL = %q, want the display link", rec.URL)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != "Grace Hopper" {
		t.Errorf("Authors = %v", rec.Authors)
	}
	if rec.Published.Year() != 2021 || rec.Published.Month() != 4 {
		t.Errorf("Published = %v, want April 2021", rec.Published)
	}
}

func TestCoreFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	old := coreAPIBase
	coreAPIBase = ts.URL
	defer func() { coreAPIBase = old }()

	cfg := testScanCfg()
	cfg.CoreAPIKey = "bad-key"
	c := NewCore(ts.Client(), cfg)
	if _, err := c.Fetch(context.Background(), "blockchain", 20); err == nil {
		t.Error("expected error on HTTP 401")
	}
}

func TestCoreWorkNormalize(t *testing.T) {
	// Year-only fallback when publishedDate is absent.
	w := coreWork{ID: 7, Title: "A Paper", YearPublished: 2019}
	rec, ok := w.Normalize()
	if !ok {
		t.Fatal("should normalize")
	}
	if rec.Published.Year() != 2019 {
		t.Errorf("Published.Year() = %d, want 2019", rec.Published.Year())
	}
	if rec.URL != "" {
		t.Errorf("URL = %q, want empty without links", rec.URL)
	}

	// Title-less work is dropped.
	w = coreWork{ID: 8, Abstract: "No title."}
	if _, ok := w.Normalize(); ok {
		t.Error("title-less work should be dropped")
	}
}
