// Package api is the HTTP client for the catalog admin REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"golang.org/x/time/rate"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/tracing"
)

const (
	// TokenCookie is the cookie the backend uses for the session JWT
	TokenCookie = "token"

	userAgent = "catalogctl/1.0"
)

// Options configures a Client
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	// RateLimit is requests per second; zero disables throttling
	RateLimit float64
	Burst     int
	Logger    *logging.Logger
	Transport http.RoundTripper
}

// OptionsFromConfig builds Options from the api section
func OptionsFromConfig(cfg config.APIConfig, logger *logging.Logger) Options {
	return Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		UploadTimeout: cfg.UploadTimeout,
		RateLimit:     cfg.RateLimit,
		Burst:         cfg.Burst,
		Logger:        logger,
	}
}

// Client talks to the admin API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	upload  *http.Client
	limiter *rate.Limiter
	logger  *logging.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a new admin API client
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("api base URL %q must start with http:// or https://", base)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	uploadTimeout := opts.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Minute
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout, Transport: opts.Transport},
		upload:  &http.Client{Timeout: uploadTimeout, Transport: opts.Transport},
		logger:  logger,
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return c, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the session token currently attached to requests
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken sets the session token; empty clears it
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// request describes one API round trip
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	upload      bool
}

// response is a fully read 2xx response
type response struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

// send performs the round trip inside a client span. Non-2xx statuses are
// returned as *Error.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	endpoint := endpointLabel(r.path)
	span, ctx := tracing.StartClientSpan(ctx, r.method, endpoint)

	res, err := c.roundTrip(ctx, span, endpoint, r)

	status := 0
	var apiErr *Error
	switch {
	case res != nil:
		status = res.status
	case errors.As(err, &apiErr):
		status = apiErr.Status
	}
	tracing.Finish(span, status, err)
	return res, err
}

func (c *Client) roundTrip(ctx context.Context, span opentracing.Span, endpoint string, r request) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	}
	span.SetTag("request_id", requestID)
	tracing.Inject(span, req.Header)

	httpClient := c.http
	if r.upload {
		httpClient = c.upload
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordAPIRequest(r.method, endpoint, "error", duration.Seconds())
		metrics.RecordError("api", "transport")
		c.logger.LogAPICall(r.method, r.path, requestID, 0, duration, err)
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	metrics.RecordAPIRequest(r.method, endpoint, strconv.Itoa(resp.StatusCode), duration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, body, requestID)
		c.logger.LogAPICall(r.method, r.path, requestID, resp.StatusCode, duration, apiErr)
		return nil, apiErr
	}

	c.logger.LogAPICall(r.method, r.path, requestID, resp.StatusCode, duration, nil)

	return &response{
		status:  resp.StatusCode,
		header:  resp.Header,
		cookies: resp.Cookies(),
		body:    body,
	}, nil
}

// doJSON sends in as a JSON body (when non-nil) and decodes the reply into out
// (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) (*response, error) {
	r := request{method: method, path: path}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		r.body = bytes.NewReader(payload)
		r.contentType = "application/json"
	}

	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	if out != nil && len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return resp, nil
}

func decodeOptional(body []byte, out interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// endpointLabel collapses numeric path segments so metrics keep a
// bounded label set.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
