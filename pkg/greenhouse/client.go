// Package greenhouse is a minimal client for the public Greenhouse
// job-board API.
package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://boards-api.greenhouse.io"

// Client lists jobs on Greenhouse-hosted boards.
type Client interface {
	ListJobs(ctx context.Context, board string) (*JobList, error)
}

// JobList is the board listing response.
type JobList struct {
	Jobs []Job `json:"jobs"`
}

// Job is one posting in a board listing. Content carries the
// HTML-entity-escaped description markup when content=true is requested.
type Job struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Location    Location `json:"location"`
	AbsoluteURL string   `json:"absolute_url"`
	Content     string   `json:"content"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// Location holds the posting's location name.
type Location struct {
	Name string `json:"name"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Greenhouse board API client. The API is public; no
// credential is required.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ListJobs(ctx context.Context, board string) (*JobList, error) {
	url := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", c.baseURL, board)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "greenhouse: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "greenhouse: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "greenhouse: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("greenhouse: unexpected status %d for board %s", resp.StatusCode, board)
	}

	var list JobList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, eris.Wrap(err, "greenhouse: unmarshal response")
	}

	return &list, nil
}
