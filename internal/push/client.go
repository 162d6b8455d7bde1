// Package push delivers commands to client devices through the external
// push relay.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/remote"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/hashicorp/go-retryablehttp"
)

const statusSent = "sent"

var ErrNotConfigured = fmt.Errorf("%w: push endpoint is not configured", common.ErrorValidation)

type Client struct {
	url  string
	http *retryablehttp.Client
	log  logging.Logger
}

func NewClient(url string, opts remote.Options, log logging.Logger) *Client {
	log = log.With("module", "push")
	return &Client{
		url:  strings.TrimSpace(url),
		http: remote.NewSingleAttemptClient(opts, log),
		log:  log,
	}
}

func (c *Client) Enabled() bool {
	return c.url != ""
}

type response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Send posts cmd and succeeds only when the relay answers {"status":"sent"}.
func (c *Client) Send(ctx context.Context, cmd models.Command) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(cmd.Target) == "" || strings.TrimSpace(cmd.Title) == "" {
		return fmt.Errorf("%w: command needs a target and a title", common.ErrorValidation)
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: push request: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return fmt.Errorf("%w: read push response: %w", common.ErrRemoteUnavailable, err)
	}

	var out response
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || out.Status != statusSent {
		c.log.Warn(ctx, "push rejected", "target", cmd.Target, "status", resp.StatusCode, "body", snippet(body))
		return rejected(resp.StatusCode, out, body, decodeErr)
	}

	c.log.Info(ctx, "push sent", "target", cmd.Target, "title", cmd.Title)
	return nil
}

func rejected(status int, out response, body []byte, decodeErr error) error {
	switch {
	case decodeErr != nil:
		return fmt.Errorf("%w: status %d: %s", common.ErrPushRejected, status, snippet(body))
	case out.Error != "":
		return fmt.Errorf("%w: status %d: %s", common.ErrPushRejected, status, out.Error)
	default:
		return fmt.Errorf("%w: status %d: relay answered %q", common.ErrPushRejected, status, out.Status)
	}
}

const maxSnippet = 200

// snippet trims b to at most maxSnippet bytes without splitting a rune.
func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxSnippet {
		return s
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// IsRejected reports whether err came from the relay refusing a command.
func IsRejected(err error) bool {
	return errors.Is(err, common.ErrPushRejected)
}
