// Package dexapi is a client for the Dex CRM REST API.
//
// Every request authenticates with the x-hasura-dex-api-key header,
// is rate limited client-side, and retries transient failures (HTTP
// 429 and 5xx, network errors) with exponential backoff. Paginated
// list endpoints return typed pages carrying the collection total so
// callers can enumerate offsets up front.
package dexapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

const (
	// DefaultBaseURL is the production Dex REST endpoint.
	DefaultBaseURL = "https://api.getdex.com/api/rest"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize is the page size list endpoints default to.
	DefaultPageSize = 100

	poolSize = 10
)

// Transient statuses worth retrying.
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Options configures a Client.
type Options struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// BaseURL overrides the production endpoint, without a trailing
	// slash.
	BaseURL string

	// Timeout bounds a single request; the retry loop spans requests.
	Timeout time.Duration

	// MaxRetries is the retry budget for transient failures.
	MaxRetries int

	// RateLimit caps outgoing requests per second. Zero disables
	// client-side limiting.
	RateLimit float64
}

// Client talks to the Dex API.
type Client struct {
	httpClient *http.Client
	transport  *http.Transport
	baseURL    string
	apiKey     string
	timeout    time.Duration
	retryCfg   dexerrors.RetryConfig
	limiter    *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// New builds a Client. The API key is the only required option.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, dexerrors.ConfigError("API key is required", nil).
			WithSuggestion("set DEX_API_KEY or api.key in the config file")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	// No client-wide timeout: each request carries its own context
	// deadline so the retry loop stays in control.
	transport := &http.Transport{
		MaxIdleConns:        poolSize,
		MaxIdleConnsPerHost: poolSize,
		MaxConnsPerHost:     poolSize * 2,
		IdleConnTimeout:     10 * time.Second,
	}

	retryCfg := dexerrors.DefaultRetryConfig()
	retryCfg.MaxRetries = opts.MaxRetries

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		transport:  transport,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		timeout:    opts.Timeout,
		retryCfg:   retryCfg,
		limiter:    limiter,
	}, nil
}

// Close releases pooled connections. The client is unusable after.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.transport.CloseIdleConnections()
}

// do runs one API call through the rate limiter and retry loop,
// decoding a successful response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return dexerrors.InternalError("client is closed", nil)
	}
	c.mu.Unlock()

	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return dexerrors.InternalError(fmt.Sprintf("encoding %s %s request", method, path), err)
		}
	}

	body, err := dexerrors.RetryWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		// Wait failures mean the parent context ended; the retry
		// loop notices on its next context check.
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		status, respBody, err := c.roundTrip(reqCtx, method, path, query, reqBody)
		if err != nil {
			slog.Debug("api_request_failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil, err
		}
		if status >= 400 {
			slog.Debug("api_request_status",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status))
			return nil, c.statusError(status, path, respBody)
		}
		return respBody, nil
	})
	if err != nil {
		return err
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return dexerrors.New(dexerrors.ErrCodeAPIUnavailable,
			fmt.Sprintf("decoding %s %s response", method, path), err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-hasura-dex-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// statusError maps an HTTP error response to a structured error.
// Retryability rides on the code: 429 and 5xx map to retryable codes,
// everything else stops the retry loop.
func (c *Client) statusError(status int, path string, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	switch status {
	case http.StatusUnauthorized:
		return dexerrors.New(dexerrors.ErrCodeAPIAuth, "invalid API key", nil).
			WithSuggestion("check DEX_API_KEY against your Dex account settings")
	case http.StatusTooManyRequests:
		return dexerrors.New(dexerrors.ErrCodeAPIRateLimited, "rate limit exceeded", nil)
	case http.StatusBadRequest:
		msg := payload.Error
		if msg == "" {
			msg = "validation error"
		}
		return dexerrors.New(dexerrors.ErrCodeInvalidInput, msg, nil).
			WithDetail("path", path)
	case http.StatusNotFound:
		if id := pathID(path, "/contacts/"); id != "" {
			return dexerrors.New(dexerrors.ErrCodeContactNotFound,
				fmt.Sprintf("contact %s not found", id), nil)
		}
		return dexerrors.New(dexerrors.ErrCodeAPINotFound,
			fmt.Sprintf("%s not found", path), nil)
	default:
		msg := payload.Error
		if msg == "" {
			msg = fmt.Sprintf("API error: %d", status)
		}
		code := dexerrors.ErrCodeAPIUnavailable
		if !retryableStatuses[status] {
			code = dexerrors.ErrCodeInvalidInput
		}
		return dexerrors.New(code, msg, nil).
			WithDetail("status", strconv.Itoa(status)).
			WithDetail("path", path)
	}
}

// pathID extracts the id segment following marker in path, or "".
func pathID(path, marker string) string {
	_, rest, found := strings.Cut(path, marker)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return id
}

func pageQuery(limit, offset int) url.Values {
	return url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(offset)},
	}
}
