// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repository wraps the reference-material repository: feed-based
// search for material summaries and HTML detail scraping for analyte tables.
package repository

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/refmat-engine/internal/httputil"
	"github.com/pdiddy/refmat-engine/internal/metrics"
	"github.com/pdiddy/refmat-engine/pkg/types"
)

// repoAPIBase is the repository root. Declared as a var so tests can
// substitute an httptest server.
var repoAPIBase = "https://search.refmaterials.org"

// urnPrefix is the fixed prefix on repository material identifiers. It is
// stripped before the id is inserted into the detail URL path.
const urnPrefix = "urn:rm:"

const defaultCategoryFilter = "crm"

// Client wraps the repository endpoints.
type Client struct {
	Client *http.Client
	Config types.RepositoryConfig
	Logger *zap.Logger
}

// repository search feed XML structures.
type searchFeed struct {
	Entries []feedEntry `xml:"entry"`
}

type feedEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// Search queries the repository for materials matching term. The first feed
// entry is a feed-level header and is skipped. An empty result set is a
// valid success.
func (c *Client) Search(ctx context.Context, term string) ([]types.MaterialSummary, error) {
	category := c.Config.CategoryFilter
	if category == "" {
		category = defaultCategoryFilter
	}

	params := url.Values{
		"q":        {term},
		"category": {category},
	}
	reqURL := repoAPIBase + "/search?" + params.Encode()

	start := time.Now()
	resp, err := c.get(ctx, reqURL)
	if err != nil {
		metrics.ObserveRequest("repository", "search", time.Since(start).Seconds(), true)
		return nil, fmt.Errorf("repository search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveRequest("repository", "search", time.Since(start).Seconds(), true)
		return nil, fmt.Errorf("repository search returned HTTP %d", resp.StatusCode)
	}

	var feed searchFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		metrics.ObserveRequest("repository", "search", time.Since(start).Seconds(), true)
		return nil, fmt.Errorf("parsing repository feed: %w", err)
	}
	metrics.ObserveRequest("repository", "search", time.Since(start).Seconds(), false)

	// The first entry is the feed header, not a material.
	if len(feed.Entries) <= 1 {
		return nil, nil
	}

	summaries := make([]types.MaterialSummary, 0, len(feed.Entries)-1)
	for _, entry := range feed.Entries[1:] {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			continue
		}
		title := strings.TrimSpace(entry.Title)
		summaries = append(summaries, types.MaterialSummary{
			ID:             id,
			DisplayName:    displayName(title),
			SearchableName: title,
			AbstractText:   strings.TrimSpace(entry.Summary),
		})
	}
	return summaries, nil
}

// displayName returns the feed title up to the first colon (e.g.
// "ERM-BB186: Pig kidney" yields "ERM-BB186"). Titles without a colon are
// used whole.
func displayName(title string) string {
	if name, _, ok := strings.Cut(title, ":"); ok {
		return strings.TrimSpace(name)
	}
	return title
}

// detailPath converts a material id to the detail URL path segment by
// stripping the URN prefix.
func detailPath(id string) string {
	return strings.TrimPrefix(id, urnPrefix)
}

func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)
	if c.Config.APIKey != "" {
		req.Header.Set("X-API-Key", c.Config.APIKey)
	}
	return httputil.DoWithRetry(ctx, c.Client, req, 0)
}
