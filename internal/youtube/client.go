// Package youtube talks to the YouTube Data API v3: it resolves channel URLs to channel IDs
// and enumerates a channel's uploads playlist.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	errpkg "github.com/veranemoloko/channel-covers/internal/errors"
	"github.com/veranemoloko/channel-covers/internal/metrics"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	pageSize        = 50
	maxResponseSize = 8 << 20
)

// Options configures the Client.
type Options struct {
	BaseURL string
	APIKey  string

	// MaxPages bounds playlist pagination; 0 means unbounded.
	MaxPages int
}

// Client is a minimal Data API client. It never retries.
type Client struct {
	http   *http.Client
	opts   Options
	logger *slog.Logger
}

// NewClient creates a Client sharing httpClient, which must be safe for concurrent use.
func NewClient(httpClient *http.Client, opts Options, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:   httpClient,
		opts:   opts,
		logger: logger,
	}
}

// get issues GET <BaseURL>/<resource>?<params>&key=... and decodes the JSON body into out.
// Every failure wraps ErrUpstream.
func (c *Client) get(ctx context.Context, resource string, params url.Values, out any) error {
	params.Set("key", c.opts.APIKey)
	endpoint := c.opts.BaseURL + "/" + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: create %s request: %w", errpkg.ErrUpstream, resource, err)
	}
	req.Header.Set("Accept", "application/json")

	metrics.APIRequestsTotal.WithLabelValues(resource).Inc()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %w", errpkg.ErrUpstream, resource, redactKey(err))
	}
	defer resp.Body.Close()

	c.logger.Debug("api response", "resource", resource, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %s%s", errpkg.ErrUpstream, resource, resp.Status, apiErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", errpkg.ErrUpstream, resource, err)
	}

	return nil
}

// apiErrorMessage extracts the API's error message from a failed response body, if any.
func apiErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
		return ": " + apiErr.Error.Message
	}

	return ": " + strings.TrimSpace(string(data))
}

// redactKey strips the API key from the URL that net/http embeds in transport errors.
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	u, perr := url.Parse(urlErr.URL)
	if perr != nil {
		return err
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}

	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}
