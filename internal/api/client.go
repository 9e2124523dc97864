package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kypgh/fitbook-client/pkg/observability"
	"go.uber.org/zap"
)

// TokenSource supplies a valid access token for outbound requests. An
// empty token with a nil error means "not authenticated" and the request
// is sent without an Authorization header.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Config holds HTTP client settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client issues JSON requests against the backend API. It owns the
// Authorization header: either a static token set via SetAuthToken or a
// TokenSource consulted before every authenticated request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
	metrics    *observability.Metrics

	mu          sync.RWMutex
	authToken   string
	tokenSource TokenSource
}

// NewClient creates a new API client
func NewClient(cfg Config, logger *zap.Logger, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		logger:     logger,
		metrics:    metrics,
	}
}

// SetAuthToken sets a static bearer token attached to every request
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
}

// ClearAuthToken removes the static bearer token
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

// SetTokenSource installs a token source consulted before each request.
// When set, it takes precedence over the static token.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokenSource = ts
	c.mu.Unlock()
}

// Get issues an authenticated GET request and returns the decoded body
func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, *Error) {
	return c.do(ctx, http.MethodGet, path, query, nil, true)
}

// Post issues an authenticated POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any) (any, *Error) {
	return c.do(ctx, http.MethodPost, path, nil, body, true)
}

// Put issues an authenticated PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any) (any, *Error) {
	return c.do(ctx, http.MethodPut, path, nil, body, true)
}

// Delete issues an authenticated DELETE request
func (c *Client) Delete(ctx context.Context, path string) (any, *Error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}

// PostNoAuth issues a POST without an Authorization header. Used for
// login, register and refresh, where attaching a token would be wrong.
func (c *Client) PostNoAuth(ctx context.Context, path string, body any) (any, *Error) {
	return c.do(ctx, http.MethodPost, path, nil, body, false)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, auth bool) (any, *Error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, newError(ValidationError, "Invalid request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, newError(ValidationError, "Invalid request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if auth {
		if token := c.currentToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransportError(err)
		c.metrics.RecordRequest(ctx, method, string(apiErr.Kind))
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("kind", string(apiErr.Kind)),
			zap.Error(err),
		)
		return nil, apiErr
	}
	defer resp.Body.Close()

	decoded, decodeErr := decodeBody(resp.Body)

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		apiErr := classifyStatusError(resp.StatusCode, decoded)
		c.metrics.RecordRequest(ctx, method, string(apiErr.Kind))
		return nil, apiErr
	}

	if decodeErr != nil {
		c.metrics.RecordRequest(ctx, method, string(ValidationError))
		return nil, newError(ValidationError, "Invalid response format")
	}

	c.metrics.RecordRequest(ctx, method, "success")
	return decoded, nil
}

func (c *Client) currentToken(ctx context.Context) string {
	c.mu.RLock()
	ts := c.tokenSource
	static := c.authToken
	c.mu.RUnlock()

	if ts != nil {
		token, err := ts.AccessToken(ctx)
		if err == nil && token != "" {
			return token
		}
	}
	return static
}

func decodeBody(r io.Reader) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty response body")
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(TimeoutError, "Request timed out")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(TimeoutError, "Request timed out")
	}
	return newError(NetworkError, "Network request failed")
}

func classifyStatusError(status int, body any) *Error {
	apiErr := &Error{StatusCode: status}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		apiErr.Kind = AuthenticationError
		apiErr.Message = "Authentication failed"
	case status == http.StatusRequestTimeout:
		apiErr.Kind = TimeoutError
		apiErr.Message = "Request timed out"
	case status == http.StatusTooManyRequests:
		apiErr.Kind = ServerError
		apiErr.Message = "Too many requests"
		apiErr.Code = CodeRateLimited
	case status >= 500:
		apiErr.Kind = ServerError
		apiErr.Message = "Server error"
	default:
		apiErr.Kind = ValidationError
		apiErr.Message = "Request was rejected"
	}

	// Prefer the backend's own message/code when the failure envelope is present
	if m, ok := body.(map[string]any); ok {
		if errObj, ok := asObject(m["error"]); ok {
			apiErr.Message = str(errObj, "message", apiErr.Message)
			if code := str(errObj, "code", ""); code != "" {
				apiErr.Code = code
			}
			apiErr.Details = errObj["details"]
		}
	}
	return apiErr
}
