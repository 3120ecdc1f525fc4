/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

const (
	// APIVersionPath is prefixed to every collection path.
	APIVersionPath = "/v2.0"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit and DefaultRateBurst throttle outgoing requests.
	DefaultRateLimit = 10
	DefaultRateBurst = 20

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 * 1024

	tracerName = "github.com/NVIDIA/gbpctl/pkg/client"
)

// Client is the HTTP implementation of API.
type Client struct {
	baseURL    *url.URL
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	registry   *resource.Registry
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithToken sets the X-Auth-Token header sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit throttles requests to limit per second with the given burst.
// A non-positive limit disables throttling.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRegistry sets the registry used to map types to paths.
func WithRegistry(r *resource.Registry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// New creates a Client for the API rooted at endpoint, e.g. http://controller:9696.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, gbperrors.Wrap(gbperrors.ErrCodeInvalidRequest, "invalid API endpoint", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, gbperrors.WrapWithContext(gbperrors.ErrCodeInvalidRequest,
			"API endpoint must be an http or https URL", nil, map[string]any{"endpoint": endpoint})
	}

	c := &Client{
		baseURL:    u,
		userAgent:  "gbpctl",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = resource.NewRegistry()
	}
	return c, nil
}

// List returns the records of type t matching q.
func (c *Client) List(ctx context.Context, t resource.Type, q Query) ([]Record, error) {
	d, err := c.descriptor(t)
	if err != nil {
		return nil, err
	}

	var envelope map[string][]Record
	if err := c.do(ctx, http.MethodGet, d, d.Path, q.Values(), nil, &envelope); err != nil {
		return nil, err
	}
	records, ok := envelope[d.Plural]
	if !ok {
		return nil, gbperrors.WrapWithContext(gbperrors.ErrCodeBackend,
			"unexpected list response", nil, map[string]any{"resource": string(t), "missing_key": d.Plural})
	}
	return records, nil
}

// Get returns the record of type t with the given id.
func (c *Client) Get(ctx context.Context, t resource.Type, id string) (Record, error) {
	d, err := c.descriptor(t)
	if err != nil {
		return nil, err
	}
	return c.single(ctx, http.MethodGet, d, d.ItemPath(url.PathEscape(id)), nil)
}

// Create posts body and returns the created record.
func (c *Client) Create(ctx context.Context, t resource.Type, body map[string]any) (Record, error) {
	d, err := c.descriptor(t)
	if err != nil {
		return nil, err
	}
	return c.single(ctx, http.MethodPost, d, d.Path, body)
}

// Update puts a partial body and returns the updated record.
func (c *Client) Update(ctx context.Context, t resource.Type, id string, body map[string]any) (Record, error) {
	d, err := c.descriptor(t)
	if err != nil {
		return nil, err
	}
	return c.single(ctx, http.MethodPut, d, d.ItemPath(url.PathEscape(id)), body)
}

// Delete removes the record of type t with the given id.
func (c *Client) Delete(ctx context.Context, t resource.Type, id string) error {
	d, err := c.descriptor(t)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, d, d.ItemPath(url.PathEscape(id)), nil, nil, nil)
}

func (c *Client) descriptor(t resource.Type) (*resource.Descriptor, error) {
	d, ok := c.registry.Get(t)
	if !ok {
		return nil, gbperrors.Invalid("resource", fmt.Sprintf("unknown resource type %q", t))
	}
	return d, nil
}

func (c *Client) single(ctx context.Context, method string, d *resource.Descriptor, path string, body map[string]any) (Record, error) {
	var envelope map[string]Record
	if err := c.do(ctx, method, d, path, nil, body, &envelope); err != nil {
		return nil, err
	}
	rec, ok := envelope[string(d.Type)]
	if !ok {
		return nil, gbperrors.WrapWithContext(gbperrors.ErrCodeBackend,
			"unexpected response", nil, map[string]any{"resource": string(d.Type), "missing_key": string(d.Type)})
	}
	return rec, nil
}

// do sends one request and decodes a 2xx JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method string, d *resource.Descriptor, path string, query url.Values, body map[string]any, out any) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "HTTP "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("gbp.resource", string(d.Type)),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return gbperrors.Wrap(gbperrors.ErrCodeTimeout, "request throttled past deadline", err)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + APIVersionPath + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return gbperrors.Wrap(gbperrors.ErrCodeInternal, "failed to encode request body", merr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return gbperrors.Wrap(gbperrors.ErrCodeInternal, "failed to build request", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	slog.Debug("api request",
		"method", method,
		"url", u.String(),
		"request_id", requestID,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(method, string(d.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		requestTotal.WithLabelValues(method, string(d.Type), "error").Inc()
		return transportError(method, u.String(), err)
	}
	defer resp.Body.Close()

	requestTotal.WithLabelValues(method, string(d.Type), strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	slog.Debug("api response",
		"method", method,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return backendError(method, d.Type, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return gbperrors.Wrap(gbperrors.ErrCodeBackend, "failed to decode response", err)
	}
	return nil
}

func transportError(method, target string, err error) error {
	details := map[string]any{"method": method, "url": target}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return gbperrors.WrapWithContext(gbperrors.ErrCodeTimeout, "request timed out", err, details)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return gbperrors.WrapWithContext(gbperrors.ErrCodeUnavailable, "request failed", err, details)
}
