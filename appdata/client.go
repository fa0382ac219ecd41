// ABOUTME: Fetcher implementations: HTTPClient talks to the JSON API, LibraryFetcher reads the content tree.
package appdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2389-research/cohort/curriculum"
)

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// HTTPClient fetches from the cohort JSON API rooted at BaseURL.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewHTTPClient returns a client for baseURL. A zero timeout means none.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Members calls GET /api/member.
func (c *HTTPClient) Members(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/api/member", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Readme calls GET /api/member/{name} and returns its "content" field.
func (c *HTTPClient) Readme(ctx context.Context, name string) (string, error) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.getJSON(ctx, "/api/member/"+url.PathEscape(name), &body); err != nil {
		return "", err
	}
	return body.Content, nil
}

// Curriculum calls GET /api/curriculum and parses its "curriculum" field.
func (c *HTTPClient) Curriculum(ctx context.Context) ([]curriculum.Chapter, error) {
	var body struct {
		Curriculum json.RawMessage `json:"curriculum"`
	}
	if err := c.getJSON(ctx, "/api/curriculum", &body); err != nil {
		return nil, err
	}
	chapters, err := curriculum.ParseChapters(body.Curriculum)
	if err != nil {
		return nil, fmt.Errorf("GET %s/api/curriculum: %w", c.BaseURL, err)
	}
	return chapters, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	u := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// LibraryFetcher serves the same data straight from a content tree, for
// callers that have the files locally.
type LibraryFetcher struct {
	Lib *curriculum.Library
}

func (f LibraryFetcher) Members(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Lib.Members()
}

func (f LibraryFetcher) Readme(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Lib.Readme(name)
}

func (f LibraryFetcher) Curriculum(ctx context.Context) ([]curriculum.Chapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := f.Lib.Manifest()
	if err != nil {
		return nil, err
	}
	return m.Chapters, nil
}
