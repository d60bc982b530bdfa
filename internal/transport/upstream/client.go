// Package upstream fetches the raw station dataset over HTTP.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/stationview/internal/domain"
	"github.com/kailas-cloud/stationview/internal/domain/dataset"
	"github.com/kailas-cloud/stationview/internal/metrics"
)

// maxErrorBody caps how much of a failed response is kept for logs.
const maxErrorBody = 512

// Client reads the full dataset from a single GET endpoint. It never retries.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Config holds the upstream client settings.
type Config struct {
	URL          string
	Timeout      time.Duration
	RateLimitRPS float64 // 0 disables rate limiting
	UserAgent    string
	Logger       *zap.Logger
}

// New creates a Client.
func New(cfg *Config) *Client {
	c := &Client{
		url:        cfg.URL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}
	if cfg.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream HTTP %d: %s", e.StatusCode, e.Body)
}

// FetchAll downloads the dataset and decodes it as a JSON array of objects.
// Every failure wraps domain.ErrUpstreamFetch.
func (c *Client) FetchAll(ctx context.Context) ([]dataset.Raw, error) {
	start := time.Now()
	body, err := c.get(ctx)
	if err != nil {
		return nil, c.fail(err)
	}

	var raws []dataset.Raw
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, c.fail(fmt.Errorf("decode dataset: %w", err))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	metrics.UpstreamRecords.Set(float64(len(raws)))
	return raws, nil
}

// Ping checks that the upstream answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.get(ctx); err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) fail(err error) error {
	metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
	c.logger.Warn("upstream fetch failed", zap.String("url", c.url), zap.Error(err))
	return fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
}
