// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// coreAPIBase is the CORE v3 works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var coreAPIBase = "https://api.core.ac.uk/v3/search/works"

// Core queries the CORE v3 API. CORE requires an API key; without one the
// client is a permanently empty source and never touches the network.
type Core struct {
	client  *http.Client
	apiKey  string
	ua      string
	limiter *rate.Limiter
}

// NewCore returns a CORE client. cfg.CoreAPIKey may be empty.
func NewCore(client *http.Client, cfg types.ScanConfig) *Core {
	return &Core{
		client:  client,
		apiKey:  cfg.CoreAPIKey,
		ua:      cfg.UserAgent,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Name returns the source identifier.
func (c *Core) Name() types.Source { return types.SourceCore }

// Fetch queries the works search endpoint. With no API key configured it
// returns an empty result without error.
func (c *Core) Fetch(ctx context.Context, query string, limit int) ([]RawItem, error) {
	if c.apiKey == "" {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty CORE query")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":     {query},
		"limit": {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coreAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("CORE API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CORE API returned HTTP %d", resp.StatusCode)
	}

	var cr coreResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CORE response: %w", err)
	}

	items := make([]RawItem, len(cr.Results))
	for i, work := range cr.Results {
		items[i] = work
	}
	return items, nil
}

// CORE v3 API JSON structures.
type coreResponse struct {
	TotalHits int        `json:"totalHits"`
	Results   []coreWork `json:"results"`
}

type coreWork struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Abstract      string       `json:"abstract"`
	DownloadURL   string       `json:"downloadUrl"`
	PublishedDate string       `json:"publishedDate"`
	YearPublished int          `json:"yearPublished"`
	Authors       []coreAuthor `json:"authors"`
	Links         []coreLink   `json:"links"`
}

type coreAuthor struct {
	Name string `json:"name"`
}

type coreLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Normalize maps one CORE work onto the canonical schema.
func (w coreWork) Normalize() (types.PaperRecord, bool) {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		return types.PaperRecord{}, false
	}

	rec := types.PaperRecord{
		Title:    title,
		Abstract: strings.TrimSpace(w.Abstract),
		Source:   types.SourceCore,
		SourceID: fmt.Sprintf("%d", w.ID),
		URL:      w.landingURL(),
	}

	for _, a := range w.Authors {
		if a.Name != "" {
			rec.Authors = append(rec.Authors, a.Name)
		}
	}

	// publishedDate arrives as RFC 3339 or as a bare date.
	if len(w.PublishedDate) >= 10 {
		if t, err := time.Parse("2006-01-02", w.PublishedDate[:10]); err == nil {
			rec.Published = t
		}
	}
	if rec.Published.IsZero() && w.YearPublished > 0 {
		rec.Published = time.Date(w.YearPublished, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	return rec, true
}

// landingURL prefers the display page link, then the download URL.
func (w coreWork) landingURL() string {
	for _, l := range w.Links {
		if l.Type == "display" {
			return l.URL
		}
	}
	return w.DownloadURL
}
