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

// semanticScholarBase is the Semantic Scholar paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticScholarBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields   = "title,authors,year,publicationDate,url,abstract,venue"
	semanticPageSize = 20
)

// SemanticScholar queries the Semantic Scholar Graph API. Results are
// fetched in pages of 20, paced at one request per second, until limit is
// reached or the API returns a short page.
type SemanticScholar struct {
	client  *http.Client
	apiKey  string
	ua      string
	limiter *rate.Limiter
}

// NewSemanticScholar returns a client paced for the unauthenticated rate
// limit (1 request/s).
func NewSemanticScholar(client *http.Client, cfg types.ScanConfig) *SemanticScholar {
	return &SemanticScholar{
		client:  client,
		apiKey:  cfg.SemanticScholarAPIKey,
		ua:      cfg.UserAgent,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Name returns the source identifier.
func (c *SemanticScholar) Name() types.Source { return types.SourceSemanticScholar }

// Fetch pages through the search endpoint until limit items are collected.
func (c *SemanticScholar) Fetch(ctx context.Context, query string, limit int) ([]RawItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	var items []RawItem
	for offset := 0; offset < limit; offset += semanticPageSize {
		pageSize := semanticPageSize
		if remaining := limit - offset; remaining < pageSize {
			pageSize = remaining
		}

		page, err := c.fetchPage(ctx, query, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			items = append(items, p)
		}
		if len(page) < pageSize {
			break
		}
	}
	return items, nil
}

func (c *SemanticScholar) fetchPage(ctx context.Context, query string, pageSize, offset int) ([]semanticPaper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", pageSize)},
		"offset": {fmt.Sprintf("%d", offset)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticScholarBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.ua)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return sr.Data, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string           `json:"paperId"`
	Title           string           `json:"title"`
	Abstract        string           `json:"abstract"`
	URL             string           `json:"url"`
	Venue           string           `json:"venue"`
	Year            int              `json:"year"`
	PublicationDate string           `json:"publicationDate"`
	Authors         []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// Normalize maps one Semantic Scholar paper onto the canonical schema.
func (p semanticPaper) Normalize() (types.PaperRecord, bool) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return types.PaperRecord{}, false
	}

	rec := types.PaperRecord{
		Title:    title,
		Abstract: strings.TrimSpace(p.Abstract),
		Venue:    p.Venue,
		Source:   types.SourceSemanticScholar,
		SourceID: p.PaperID,
		URL:      p.URL,
	}

	for _, a := range p.Authors {
		if a.Name != "" {
			rec.Authors = append(rec.Authors, a.Name)
		}
	}

	if p.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", p.PublicationDate); err == nil {
			rec.Published = t
		}
	} else if p.Year > 0 {
		rec.Published = time.Date(p.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	return rec, true
}
