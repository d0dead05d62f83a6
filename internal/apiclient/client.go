// Package apiclient is the single HTTP entry point to the marketplace backend.
// It attaches the stored access token, unwraps the response envelope and turns
// failures into *APIError values carrying the backend's message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"edumaster/web/internal/config"
	"edumaster/web/internal/models"
	"edumaster/web/internal/tokens"
)

const (
	RequestIDHeader      = "X-Request-Id"
	IdempotencyKeyHeader = "Idempotency-Key"

	maxResponseBytes = 4 << 20
)

// Observer receives one call per backend round trip. Status is 0 when the
// request never got a response.
type Observer interface {
	ObserveBackend(method string, status int, elapsed time.Duration)
}

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    tokens.Reader
	userAgent string
	maxBody   int64
	observer  Observer
	log       zerolog.Logger
}

func New(cfg config.APIConfig, reader tokens.Reader, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		tokens:    reader,
		userAgent: cfg.UserAgent,
		maxBody:   maxResponseBytes,
		log:       log,
	}, nil
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveBackend(method, status, time.Since(start))
	}
}

// Do sends req and decodes the envelope's data into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req.Method, 0, start)
		c.log.Warn().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("backend request failed")
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	c.observe(req.Method, resp.StatusCode, start)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", req.Method, req.Path, err)
	}
	if int64(len(raw)) > c.maxBody {
		c.log.Warn().
			Str("method", req.Method).
			Str("path", req.Path).
			Int64("limit", c.maxBody).
			Msg("backend response too large")
		return fmt.Errorf("%s %s: %w (limit %d bytes)", req.Method, req.Path, ErrResponseTooLarge, c.maxBody)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", httpReq.Header.Get(RequestIDHeader)).
		Msg("backend request")

	return decode(resp.StatusCode, raw, out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body any, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Query: query, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body any, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Query: query, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query}, out)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := *c.baseURL
	target.Path = c.baseURL.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}

	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(RequestIDHeader, requestID)

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		switch {
		case err == nil && token != "":
			httpReq.Header.Set("Authorization", "Bearer "+token)
		case err != nil && !errors.Is(err, tokens.ErrNotFound):
			c.log.Warn().Err(err).Msg("read access token failed")
		}
	}

	return httpReq, nil
}

func decode(status int, raw []byte, out any) error {
	var env models.Envelope
	envErr := json.Unmarshal(raw, &env)

	if status >= http.StatusBadRequest {
		apiErr := &APIError{Status: status}
		if envErr == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}
	if envErr != nil {
		return fmt.Errorf("decode envelope: %w", envErr)
	}
	if !env.Success {
		return &APIError{Status: status, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
