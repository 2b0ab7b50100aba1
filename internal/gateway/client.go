// Package gateway is the client for the request-management REST backend.
//
// The backend exposes GET and POST on /api/requests; nothing else is used.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"requester-dashboard/internal/metrics"
	"requester-dashboard/internal/requests"
	"requester-dashboard/internal/util"
)

const (
	requestsPath = "/api/requests"

	// errorBodyMaxBytes bounds how much of a non-2xx body ends up in an error.
	errorBodyMaxBytes = 64 * 1024
	// responseMaxBytes bounds a successful response body.
	responseMaxBytes = 32 * 1024 * 1024
)

// Gateway is the boundary over the REST backend.
type Gateway interface {
	ListRequests(ctx context.Context) ([]requests.Record, error)
	CreateRequest(ctx context.Context, draft requests.Draft) (requests.Record, error)
}

// Client talks to the backend over HTTP/JSON.
type Client struct {
	BaseURL         *url.URL
	HTTP            *http.Client
	RequestIDHeader string

	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets an overall per-call timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTP.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// WithRequestIDHeader sets the header that carries a fresh request id per call.
// An empty name disables the header.
func WithRequestIDHeader(name string) Option {
	return func(c *Client) { c.RequestIDHeader = name }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records every call in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient constructs a backend client for base (e.g. http://localhost:5000).
func NewClient(base string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse backend url: %q is not absolute", base)
	}
	c := &Client{
		BaseURL:         u,
		HTTP:            &http.Client{},
		RequestIDHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// ListRequests returns every request record in backend order.
func (c *Client) ListRequests(ctx context.Context) ([]requests.Record, error) {
	var out []requests.Record
	start := time.Now()
	status, err := c.doJSON(ctx, http.MethodGet, nil, &out)
	c.metrics.RecordGatewayCall(metrics.OpList, err, time.Since(start))
	if err != nil {
		c.logger.Warn("list requests failed", "op", metrics.OpList, "status", status, "err", err)
		return nil, &FetchError{StatusCode: status, Message: err.Error(), Err: err}
	}
	if out == nil {
		out = []requests.Record{}
	}
	return out, nil
}

// CreateRequest posts the ten submittable fields of draft and returns the
// record the backend created. The file selection is not sent.
func (c *Client) CreateRequest(ctx context.Context, draft requests.Draft) (requests.Record, error) {
	var out requests.Record
	start := time.Now()
	status, err := c.doJSON(ctx, http.MethodPost, draft, &out)
	if err == nil && out.ID.IsZero() {
		err = ErrMissingID
		c.logger.Warn("create request returned no id; record may exist on backend",
			"op", metrics.OpCreate,
			"status", status,
			"referenceNumber", out.ReferenceNumber,
			"projectTitle", draft.ProjectTitle,
			"email", draft.Email,
			"response", util.MustJSON(out),
		)
	}
	c.metrics.RecordGatewayCall(metrics.OpCreate, err, time.Since(start))
	if err != nil {
		c.logger.Warn("create request failed", "op", metrics.OpCreate, "status", status, "err", err)
		return requests.Record{}, &SubmitError{StatusCode: status, Message: err.Error(), Err: err}
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method string, reqBody any, out any) (int, error) {
	u := c.BaseURL.ResolveReference(&url.URL{Path: strings.TrimRight(c.BaseURL.Path, "/") + requestsPath})

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.RequestIDHeader != "" {
		req.Header.Set(c.RequestIDHeader, uuid.NewString())
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf, _ := util.ReadAllLimit(resp.Body, errorBodyMaxBytes)
		return resp.StatusCode, &statusError{code: resp.StatusCode, body: errorMessage(buf)}
	}

	buf, err := util.ReadAllLimit(resp.Body, responseMaxBytes)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return resp.StatusCode, errors.New("empty response body")
	}
	if err := util.DecodeJSON(buf, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// errorMessage prefers a {"message": ...} or {"error": ...} envelope and falls
// back to the trimmed body text.
func errorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return strings.TrimSpace(string(body))
}
