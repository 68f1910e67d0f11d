// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// arxivAPIBase is the arXiv Atom query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv API. arXiv asks clients for no more than one
// request every three seconds.
type Arxiv struct {
	client  *http.Client
	ua      string
	limiter *rate.Limiter
}

// NewArxiv returns a client paced per the arXiv API terms of use.
func NewArxiv(client *http.Client, cfg types.ScanConfig) *Arxiv {
	return &Arxiv{
		client:  client,
		ua:      cfg.UserAgent,
		limiter: rate.NewLimiter(rate.Every(3*time.Second), 1),
	}
}

// Name returns the source identifier.
func (c *Arxiv) Name() types.Source { return types.SourceArxiv }

// Fetch queries the arXiv API once and returns the decoded feed entries.
func (c *Arxiv) Fetch(ctx context.Context, query string, limit int) ([]RawItem, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	items := make([]RawItem, len(feed.Entries))
	for i, entry := range feed.Entries {
		items[i] = entry
	}
	return items, nil
}

// buildArxivQuery turns a free-text query into an all-fields search_query
// parameter (e.g. "smart contracts" → "all:smart+contracts").
func buildArxivQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	return "all:" + strings.Join(terms, "+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Normalize maps one Atom entry onto the canonical schema. arXiv wraps
// titles and abstracts across lines, so internal whitespace is collapsed.
func (e arxivEntry) Normalize() (types.PaperRecord, bool) {
	title := collapseSpace(e.Title)
	if title == "" {
		return types.PaperRecord{}, false
	}

	id := extractArxivID(e.ID)
	if id == "" {
		id = e.ID
	}

	rec := types.PaperRecord{
		Title:    title,
		Abstract: collapseSpace(e.Summary),
		Source:   types.SourceArxiv,
		SourceID: id,
		URL:      e.landingURL(),
	}

	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		rec.Published = t
	}

	return rec, true
}

// landingURL picks the entry's HTML abstract page link, falling back to the
// entry ID (which is itself the abs/ URL).
func (e arxivEntry) landingURL() string {
	for _, l := range e.Links {
		if l.Type == "text/html" {
			return l.Href
		}
	}
	return e.ID
}

// extractArxivID pulls the bare arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// collapseSpace trims s and folds runs of whitespace (including newlines)
// into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
