// Package platform provides the HTTP client for the FluxoClean platform
// API — the service that owns tenants, registrations and broadcasts.
// Every call goes through the circuit breaker, retry with backoff and a
// bulkhead limiting concurrent requests.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("platform")

// Client wraps HTTP calls to the platform API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates a platform API client.
func NewClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	maxConc := cfg.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 1
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(maxConc),
		cfg:        cfg,
		logger:     logger,
	}
}

// doRequest executes one authenticated request and decodes the JSON
// response into out (when out is non-nil). Domain errors derived from
// the status code pass through untouched so retries can give up early
// at the call site.
func (c *Client) doRequest(ctx context.Context, method, path string, headers map[string]string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		c.logger.Error("platform: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("platform: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := statusError(resp.StatusCode, path, raw); err != nil {
		c.logger.Warn("platform: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return err
	}

	c.logger.Debug("platform: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an HTTP status to a domain error. 2xx maps to nil.
func statusError(status int, path string, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return &domain.ErrNotFound{Resource: "platform resource", ID: path}
	case status == http.StatusUnauthorized:
		return &domain.ErrUnauthorized{Message: "credenciais da plataforma inválidas"}
	case status == http.StatusForbidden:
		return &domain.ErrForbidden{Action: path}
	case status == http.StatusConflict:
		return &domain.ErrConflict{Message: string(body)}
	case status == http.StatusLocked:
		// The platform answers 423 when an operation targets a blocked tenant.
		return &domain.ErrTenantBlocked{TenantID: path}
	case status == http.StatusGone:
		// Expired or already-consumed registration/reset tokens come back 410.
		return &domain.ErrInvalidToken{}
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return &domain.ErrValidation{Field: "request", Message: string(body)}
	default:
		return fmt.Errorf("platform returned status %d: %s", status, string(body))
	}
}

// execute runs the request through bulkhead, circuit breaker and retry.
// Validation/auth/not-found responses are not retried — repeating them
// cannot succeed.
func (c *Client) execute(ctx context.Context, method, path string, headers map[string]string, payload, out any) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		var permanent error
		err := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := c.doRequest(ctx, method, path, headers, payload, out)
			if isPermanent(err) {
				permanent = err
				return nil
			}
			return err
		})
		if permanent != nil {
			return nil, permanent
		}
		return nil, err
	})

	return mapClientError(err)
}

// isPermanent reports whether err can never succeed on retry.
func isPermanent(err error) bool {
	if err == nil {
		return false
	}
	var (
		notFound     *domain.ErrNotFound
		validation   *domain.ErrValidation
		unauthorized *domain.ErrUnauthorized
		forbidden    *domain.ErrForbidden
		conflict     *domain.ErrConflict
		blocked      *domain.ErrTenantBlocked
		invalidToken *domain.ErrInvalidToken
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &validation) ||
		errors.As(err, &unauthorized) ||
		errors.As(err, &forbidden) ||
		errors.As(err, &conflict) ||
		errors.As(err, &blocked) ||
		errors.As(err, &invalidToken)
}

// mapClientError normalizes breaker and transport failures.
func mapClientError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: "platform"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: "platform request"}
	}
	if isPermanent(err) {
		return err
	}
	return &domain.ErrExternalService{Service: "platform", Err: err}
}
