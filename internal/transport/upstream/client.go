// Package upstream fetches content from the OpenStax web services.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/openstax/openstax-resource-names/internal/domain"
	"github.com/openstax/openstax-resource-names/internal/logger"
	"github.com/openstax/openstax-resource-names/internal/metrics"
)

// Defaults for Config fields left zero.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 64 << 20
	userAgent           = "openstax-resource-names"
)

// Config holds the upstream client settings.
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client is a domain.Fetcher over net/http. It does not retry.
type Client struct {
	http    *http.Client
	maxBody int64
}

var _ domain.Fetcher = (*Client)(nil)

// New creates an upstream client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: hc, maxBody: cfg.MaxBodyBytes}
}

// Get fetches rawURL and reads the whole body. Non-2xx statuses are returned
// as responses; only transport failures are errors.
func (c *Client) Get(ctx context.Context, rawURL string) (*domain.Response, error) {
	host := hostOf(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(host, metrics.StatusError, start)
		return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrUpstream, rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		c.observe(host, metrics.StatusError, start)
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrUpstream, rawURL, err)
	}
	if int64(len(body)) > c.maxBody {
		c.observe(host, metrics.StatusError, start)
		return nil, fmt.Errorf("%w: %s: body exceeds %d bytes", domain.ErrUpstream, rawURL, c.maxBody)
	}

	c.observe(host, strconv.Itoa(resp.StatusCode), start)
	logger.FromContext(ctx).Debug("upstream request",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("latency", time.Since(start)),
	)

	return &domain.Response{Status: resp.StatusCode, Body: body}, nil
}

func (c *Client) observe(host, status string, start time.Time) {
	metrics.UpstreamRequestsTotal.WithLabelValues(host, status).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
