// Package fetch downloads and decompresses daily id exports. It hands the
// merge engine a complete local newline-delimited file; the engine itself
// never touches the network.
package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/runnerr0/snapsync/internal/merge"
)

// DefaultBaseURL is the upstream export bucket.
const DefaultBaseURL = "http://files.tmdb.org/p/exports"

// Client retrieves one domain's export for one UTC day.
type Client struct {
	BaseURL    string
	WorkDir    string
	HTTPClient *http.Client
	Retries    int
	RetryDelay time.Duration
}

// NewClient builds a Client with sane defaults for any zero field.
func NewClient(baseURL, workDir string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		WorkDir:    workDir,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		Retries:    2,
		RetryDelay: 10 * time.Second,
	}
}

// ExportURL returns the upstream URL for a domain and day. Upstream names
// exports with a MM_DD_YYYY date suffix.
func (c *Client) ExportURL(domain merge.Domain, day time.Time) string {
	return fmt.Sprintf("%s/%s_%s.json.gz", c.BaseURL, domain.ExportObject(), day.UTC().Format("01_02_2006"))
}

// Fetch downloads the gzipped export, decompresses it into WorkDir, and
// returns the path of the complete plain-text file. Transient HTTP and
// network failures are retried; a 404 means the export is not published
// and fails immediately.
func (c *Client) Fetch(ctx context.Context, domain merge.Domain, day time.Time) (string, error) {
	if _, err := merge.ParseDomain(string(domain)); err != nil {
		return "", err
	}
	if err := os.MkdirAll(c.WorkDir, 0755); err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}

	url := c.ExportURL(domain, day)
	dest := filepath.Join(c.WorkDir, fmt.Sprintf("%s_%s.json", domain, day.UTC().Format("2006-01-02")))

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}

		retryable, err := c.download(ctx, url, dest)
		if err == nil {
			return dest, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

// download performs one attempt. It reports whether a failure is worth
// retrying (network errors and 5xx responses are, 4xx is not).
func (c *Client) download(ctx context.Context, url, dest string) (retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("upstream returned %s", resp.Status)
	default:
		return false, fmt.Errorf("upstream returned %s", resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return false, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	// Decompress into a temp file and rename only on a complete read, so
	// a truncated download never looks like a finished export.
	tmp, err := os.CreateTemp(c.WorkDir, ".tmp-fetch-*")
	if err != nil {
		return false, fmt.Errorf("create download temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, gz); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return true, fmt.Errorf("decompress export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return false, err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return false, err
	}
	return false, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
