package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client fetches bundle listings and file contents from the reporting
// service. It implements Source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	archiveID  string
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a client for one archive on the reporting service.
func NewClient(baseURL, archiveID string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		archiveID:  archiveID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type listResponse struct {
	Entries []wireEntry `json:"entries"`
}

// List fetches the flat entry listing for the archive.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	u := fmt.Sprintf("%s/api/archives/%s/entries", c.baseURL, url.PathEscape(c.archiveID))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode entry listing: %w", err)
	}

	entries := make([]Entry, 0, len(resp.Entries))
	for _, w := range resp.Entries {
		entries = append(entries, w.toEntry())
	}

	logrus.WithFields(logrus.Fields{
		"archive": c.archiveID,
		"entries": len(entries),
	}).Debug("listed archive entries")

	return entries, nil
}

// Extract fetches the raw bytes of one file inside the archive.
func (c *Client) Extract(ctx context.Context, path string) ([]byte, error) {
	u := fmt.Sprintf("%s/api/archives/%s/extract?path=%s",
		c.baseURL, url.PathEscape(c.archiveID), url.QueryEscape(path))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"archive": c.archiveID,
		"path":    path,
		"bytes":   len(body),
	}).Debug("extracted file")

	return body, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
	}

	return body, nil
}
