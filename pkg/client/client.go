package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client is the stationview API entry point.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	obs        *observer
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("stationview: invalid base URL %q", baseURL)
	}

	cfg := &clientConfig{timeout: defaultTimeout, userAgent: "stationview-go"}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		userAgent:  cfg.userAgent,
		obs:        obs,
	}, nil
}

// Schema returns the schema inferred from the current dataset.
func (c *Client) Schema(ctx context.Context) (fields []Field, err error) {
	defer func(start time.Time) { c.obs.observe("schema", start, err) }(time.Now())

	err = c.do(ctx, http.MethodGet, "/schema", nil, &fields)
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Station returns the station with the given id.
func (c *Client) Station(ctx context.Context, id int) (st Station, err error) {
	defer func(start time.Time) { c.obs.observe("station", start, err) }(time.Now())

	err = c.do(ctx, http.MethodGet, "/data/"+strconv.Itoa(id), nil, &st)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// Query starts a filtered, sorted and paginated data query.
func (c *Client) Query() *QueryBuilder {
	return &QueryBuilder{client: c}
}

func (c *Client) fetch(ctx context.Context, body dataRequest) (page *Page, err error) {
	defer func(start time.Time) { c.obs.observe("data", start, err) }(time.Now())

	var p Page
	err = c.do(ctx, http.MethodPost, "/data", body, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("stationview: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("stationview: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stationview: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stationview: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("stationview: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status}
	var body struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Code, apiErr.Message, apiErr.Errors = body.Code, body.Message, body.Errors
	return apiErr
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
