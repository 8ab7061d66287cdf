// Package wiki implements the Wikipedia collaborators the export core
// depends on: article search, article body HTML and batched revision
// metadata, all against the MediaWiki action API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dgallion1/wikibinder/internal/cite"
)

// Config configures the API client.
type Config struct {
	BaseURL   string        // action API endpoint. Default: English Wikipedia.
	UserAgent string        // sent with every request
	Timeout   time.Duration // HTTP timeout. Default: 30s.
	MaxBytes  int64         // max response body size. Default: 10MB.
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://en.wikipedia.org/w/api.php"
	}
	if c.UserAgent == "" {
		c.UserAgent = "wikibinder/1.0"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
}

// Client talks to the MediaWiki action API.
type Client struct {
	baseURL    string
	userAgent  string
	maxBytes   int64
	httpClient *http.Client
	sanitize   *bluemonday.Policy
}

// NewClient creates an API client. Fetched article HTML is sanitized
// before it is handed to callers, so cached bodies are always safe to
// embed in exports.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sanitize: bluemonday.UGCPolicy(),
	}
}

// SearchResult is one article search hit.
type SearchResult struct {
	Title   string `json:"title"`
	PageID  int64  `json:"page_id"`
	Snippet string `json:"snippet"`
}

// get performs one API request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Search runs a full-text article search.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))

	var body struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				PageID  int64  `json:"pageid"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &body); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(body.Query.Search))
	for _, s := range body.Query.Search {
		results = append(results, SearchResult{
			Title:   s.Title,
			PageID:  s.PageID,
			Snippet: c.sanitize.Sanitize(s.Snippet),
		})
	}
	return results, nil
}

// ArticleHTML fetches the rendered body HTML of one article, sanitized.
func (c *Client) ArticleHTML(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")

	var body struct {
		Parse struct {
			Title string `json:"title"`
			Text  string `json:"text"`
		} `json:"parse"`
		Error struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := c.get(ctx, params, &body); err != nil {
		return "", fmt.Errorf("parse %q: %w", title, err)
	}
	if body.Error.Code != "" {
		return "", fmt.Errorf("parse %q: %s (%s)", title, body.Error.Info, body.Error.Code)
	}
	if body.Parse.Text == "" {
		return "", fmt.Errorf("parse %q: empty article body", title)
	}
	return c.sanitize.Sanitize(body.Parse.Text), nil
}

// Metadata fetches revision metadata for a batch of titles. Titles the
// API cannot resolve are simply absent from the result; only transport
// or decode problems return an error.
func (c *Client) Metadata(ctx context.Context, titles []string) ([]cite.Metadata, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "info")
	params.Set("titles", strings.Join(titles, "|"))

	var body struct {
		Query struct {
			Pages []struct {
				PageID  int64  `json:"pageid"`
				Title   string `json:"title"`
				LastRev int64  `json:"lastrevid"`
				Touched string `json:"touched"`
				Missing bool   `json:"missing"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &body); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}

	metas := make([]cite.Metadata, 0, len(body.Query.Pages))
	for _, p := range body.Query.Pages {
		if p.Missing || p.PageID == 0 {
			continue
		}
		touched, err := time.Parse(time.RFC3339, p.Touched)
		if err != nil {
			touched = time.Time{}
		}
		metas = append(metas, cite.Metadata{
			PageID:     p.PageID,
			RevisionID: p.LastRev,
			Touched:    touched,
			Title:      p.Title,
		})
	}
	return metas, nil
}
