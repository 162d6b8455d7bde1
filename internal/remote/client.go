// Package remote talks to the file server the client devices upload to.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http2"
)

const maxBodySnippet = 512

type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

func DefaultOptions() Options {
	return Options{
		Timeout:      15 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
	}
}

// Client is safe for concurrent use. Reads go through a retrying client;
// deletes are sent once.
type Client struct {
	http   *retryablehttp.Client
	single *retryablehttp.Client
	log    logging.Logger
}

func NewClient(opts Options, log logging.Logger) *Client {
	log = log.With("module", "remote")
	return &Client{
		http:   NewRetryingClient(opts, log),
		single: NewSingleAttemptClient(opts, log),
		log:    log,
	}
}

// NewRetryingClient builds the HTTP client shared by every outbound
// collaborator. Exhausted retries hand back the last response so callers
// can report the server's own error text.
func NewRetryingClient(opts Options, log logging.Logger) *retryablehttp.Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}
	if err := http2.ConfigureTransport(tr); err != nil {
		log.Warn(context.Background(), "http2 not enabled", "error", err)
	}

	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{Transport: tr, Timeout: opts.Timeout}
	c.RetryMax = opts.RetryMax
	c.RetryWaitMin = opts.RetryWaitMin
	c.RetryWaitMax = opts.RetryWaitMax
	c.Logger = &retryLogger{log: log}
	c.ErrorHandler = lastResponse
	return c
}

// NewSingleAttemptClient is NewRetryingClient without retries, for requests
// that must not reach the server twice.
func NewSingleAttemptClient(opts Options, log logging.Logger) *retryablehttp.Client {
	opts.RetryMax = 0
	return NewRetryingClient(opts, log)
}

func lastResponse(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// ListFiles fetches the listing, falling back to the static files.json when
// the server has no PHP listing script.
func (c *Client) ListFiles(ctx context.Context, base string) ([]models.RawFileEntry, error) {
	urls := NewEndpoints(base).Listings()

	var lastErr error
	for _, u := range urls {
		resp, err := c.do(ctx, c.http, http.MethodGet, u, nil, "")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			c.log.Debug(ctx, "listing not found, trying next", "url", u)
			lastErr = statusError(u, resp.StatusCode, "")
			continue
		}
		return decodeListing(u, resp)
	}
	return nil, lastErr
}

func decodeListing(u string, resp *http.Response) ([]models.RawFileEntry, error) {
	defer resp.Body.Close()
	if err := checkStatus(u, resp); err != nil {
		return nil, err
	}

	var out []models.RawFileEntry
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode listing %s: %w", common.ErrRemoteUnavailable, u, err)
	}
	return out, nil
}

// ArchiveExists reports whether <uploads>/<id>_.zip is present.
func (c *Client) ArchiveExists(ctx context.Context, base, id string) (bool, error) {
	u := NewEndpoints(base).Archive(id)
	resp, err := c.do(ctx, c.http, http.MethodHead, u, nil, "")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, statusError(u, resp.StatusCode, "")
	}
}

// DeleteByPattern asks the server to remove every upload matching a glob
// pattern and returns its human-readable result.
func (c *Client) DeleteByPattern(ctx context.Context, base, pattern string) (string, error) {
	u := NewEndpoints(base).Delete()
	form := url.Values{}
	form.Set("pattern", pattern)

	resp, err := c.do(ctx, c.single, http.MethodPost, u, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(u, resp); err != nil {
		return "", err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", common.ErrRemoteUnavailable, u, err)
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) do(ctx context.Context, hc *retryablehttp.Client, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", u, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %w", common.ErrRemoteUnavailable, u, err)
	}
	return resp, nil
}

func checkStatus(u string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
	return statusError(u, resp.StatusCode, strings.TrimSpace(string(snippet)))
}

func statusError(u string, status int, body string) error {
	if body == "" {
		return fmt.Errorf("%w: request %s failed with status %d", common.ErrRemoteUnavailable, u, status)
	}
	return fmt.Errorf("%w: request %s failed with status %d: %s", common.ErrRemoteUnavailable, u, status, body)
}

// LatestMatching picks, among listed names starting with prefix, the one
// with the greatest embedded timestamp. Ties and unstamped names resolve to
// the last one in listing order.
func LatestMatching(entries []models.RawFileEntry, prefix string) (string, bool) {
	var best, bestStamp string
	found := false
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		stamp := filenames.Stamp(e.Name)
		if found && stamp < bestStamp {
			continue
		}
		best, bestStamp, found = e.Name, stamp, true
	}
	return best, found
}
