// Package http is the REST transport shared by every resource client.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/uc-client/internal/auth"
	"github.com/fivetwenty-io/uc-client/internal/constants"
	"github.com/fivetwenty-io/uc-client/pkg/uc"
)

// Client sends JSON requests to the catalog service.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	retryClient  *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       uc.Logger
	debug        bool
	userAgent    string
	cache        uc.Cache
	cacheTTL     time.Duration
	cacheScope   string
	metrics      *Metrics

	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	// Cached is true when the body came from the response cache.
	Cached bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. It is shared, not copied.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger uc.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header set by the HTTP client.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig retries 429 and 5xx responses and connection errors up to
// maxRetries times with exponential backoff between waitMin and waitMax.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = maxRetries
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithCache caches successful GET responses for ttl. Successful requests with
// any other method clear the cache.
func WithCache(cache uc.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithMetrics records request metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates a client for the service at baseURL. tokenManager may be
// nil for unauthenticated requests.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		cacheTTL:     constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = cleanhttp.DefaultPooledClient()
	}

	if c.retryMax > 0 {
		c.retryClient = c.newRetryClient()
	}

	c.cacheScope = cacheScope(c.baseURL, tokenManager)

	return c
}

// cacheScope keys cached responses by service and principal.
func cacheScope(baseURL string, tokenManager auth.TokenManager) string {
	scope := baseURL

	if identified, ok := tokenManager.(auth.Identified); ok {
		scope += "|" + identified.Principal()
	} else if tokenManager != nil {
		scope += fmt.Sprintf("|%T@%p", tokenManager, tokenManager)
	}

	return scope
}

func (c *Client) newRetryClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = c.httpClient
	rc.RetryMax = c.retryMax
	rc.Logger = nil
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if c.retryWaitMin > 0 {
		rc.RetryWaitMin = c.retryWaitMin
	}

	if c.retryWaitMax > 0 {
		rc.RetryWaitMax = c.retryWaitMax
	}

	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt == 0 {
			return
		}

		c.metrics.recordRetry(req.Method, req.URL.Path)

		if c.logger != nil {
			c.logger.Warn("Retrying request", map[string]interface{}{
				"method":  req.Method,
				"url":     req.URL.Redacted(),
				"attempt": attempt,
			})
		}
	}

	return rc
}

// Do sends the request. Responses with a status of 400 or above are returned
// together with a *uc.APIError describing them.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	cacheKey := uc.ScopedCacheKey(c.cacheScope, req.Method, req.Path, req.Query)
	cacheable := c.cache != nil && req.Method == http.MethodGet

	if cacheable {
		if resp, ok := c.fromCache(ctx, cacheKey); ok {
			c.metrics.recordCache(req.Method, req.Path, true)

			return resp, nil
		}

		c.metrics.recordCache(req.Method, req.Path, false)
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": httpReq.Method,
			"url":    httpReq.URL.Redacted(),
		})
	}

	start := time.Now()

	httpResp, err := c.send(httpReq)
	if err != nil {
		c.metrics.recordError(req.Method, req.Path)

		return nil, fmt.Errorf("executing %s %s: %w", req.Method, req.Path, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	elapsed := time.Since(start)
	c.metrics.recordRequest(req.Method, req.Path, httpResp.StatusCode, elapsed)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": elapsed.String(),
			"bytes":    len(body),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return resp, uc.ParseAPIError(httpResp.StatusCode, body)
	}

	if c.cache != nil {
		c.updateCache(ctx, req.Method, cacheKey, resp)
	}

	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return httpReq, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.retryClient == nil {
		return c.httpClient.Do(req) //nolint:bodyclose // closed by caller
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("creating retryable request: %w", err)
	}

	return c.retryClient.Do(retryReq) //nolint:bodyclose // closed by caller
}

func (c *Client) fromCache(ctx context.Context, key string) (*Response, bool) {
	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	headers := http.Header{}
	if entry.ETag != "" {
		headers.Set("ETag", entry.ETag)
	}

	return &Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       entry.Data,
		Cached:     true,
	}, true
}

func (c *Client) updateCache(ctx context.Context, method, key string, resp *Response) {
	var err error

	if method == http.MethodGet {
		if resp.StatusCode != http.StatusOK {
			return
		}

		err = c.cache.Set(ctx, key, &uc.CacheEntry{
			Data:      resp.Body,
			ExpiresAt: time.Now().Add(c.cacheTTL),
			ETag:      resp.Headers.Get("ETag"),
		})
	} else {
		err = c.cache.Clear(ctx)
	}

	if err != nil && c.logger != nil {
		c.logger.Warn("Cache update failed", map[string]interface{}{"error": err.Error()})
	}
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DeleteWithQuery sends a DELETE request with query parameters.
func (c *Client) DeleteWithQuery(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

// DecodeJSON decodes a response body into v.
func DecodeJSON(resp *Response, v interface{}) error {
	if len(resp.Body) == 0 {
		return nil
	}

	err := json.Unmarshal(resp.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
