// Package apiclient talks to the storefront backend: it injects the bearer
// token, refreshes it once on 401, retries transient failures with jittered
// exponential backoff and handles the JSON codec.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/metrics"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Authenticator supplies bearer tokens. auth.Manager implements it.
type Authenticator interface {
	AccessToken(ctx context.Context) string
	Refresh(ctx context.Context, stale string) (*models.AuthTokens, error)
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
	// Public requests carry no Authorization header and never trigger a refresh.
	Public bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       Authenticator
	retry      RetryPolicy
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.retry = policy }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, authenticator Authenticator, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		auth:    authenticator,
		retry:   DefaultRetryPolicy(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = NewHTTPClient(0)
	}

	return c
}

// NewHTTPClient returns an http.Client whose transport is traced and
// instrumented. A zero timeout leaves cancellation to the request context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(metrics.InstrumentRoundTripper(http.DefaultTransport)),
	}
}

// Do sends req and decodes a JSON success body into out (which may be nil).
// Failures are returned as *errors.AppError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {

	var token string
	if !req.Public && c.auth != nil {
		token = c.auth.AccessToken(ctx)
	}

	err := c.send(ctx, req, token, out)
	if req.Public || c.auth == nil || !appErrors.HasStatus(err, http.StatusUnauthorized) {
		return err
	}

	fresh, refreshErr := c.auth.Refresh(ctx, token)
	if refreshErr != nil || fresh == nil || fresh.AccessToken == "" {
		c.logger.Warn("Request unauthorized and token refresh failed",
			slog.String("path", req.Path),
		)
		return err
	}

	return c.send(ctx, req, fresh.AccessToken, out)
}

func (c *Client) send(ctx context.Context, req Request, token string, out any) error {

	var payload []byte
	if req.Body != nil {
		var err error
		if payload, err = json.Marshal(req.Body); err != nil {
			return appErrors.InternalError("Failed to encode request body").WithError(err)
		}
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	requestID := uuid.NewString()
	logger := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("http_method", req.Method),
		slog.String("http_path", req.Path),
	)

	attempt := 0
	operation := func() error {
		attempt++

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(appErrors.InternalError("Failed to build request").WithError(err))
		}

		for key, values := range req.Header {
			for _, v := range values {
				httpReq.Header.Add(key, v)
			}
		}
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			netErr := appErrors.NetworkError("Network request failed").WithDetail(err.Error()).WithError(err)
			if ctx.Err() != nil {
				return backoff.Permanent(netErr)
			}
			return netErr
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return appErrors.NetworkError("Failed to read response").WithError(err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return backoff.Permanent(decode(resp.StatusCode, body, out))
		}

		apiErr := appErrors.FromStatus(resp.StatusCode, appErrors.ParseBody(body))
		if retryable(resp.StatusCode) {
			return apiErr
		}

		return backoff.Permanent(apiErr)
	}

	notify := func(err error, wait time.Duration) {
		metrics.RecordRetry()
		logger.Warn("Retrying request after transient failure",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(c.retry.backOff(), ctx), notify)
	if err == nil {
		return nil
	}

	if _, ok := appErrors.IsAppError(err); ok {
		return err
	}

	// context cancellation while waiting between attempts
	return appErrors.NetworkError("Network request failed").WithError(err)
}

// backoff.Permanent(nil) is nil, so successful decodes end the retry loop.
func decode(status int, body []byte, out any) error {

	if status == http.StatusNoContent || out == nil {
		return nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return appErrors.DecodeError("Empty response body", status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return appErrors.DecodeError("Failed to decode response", status).WithError(err)
	}

	return nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// IsUnauthorized reports whether err is a 401 that survived the refresh attempt.
func IsUnauthorized(err error) bool {
	return appErrors.HasStatus(err, http.StatusUnauthorized)
}

// IsCanceled reports whether err came from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
