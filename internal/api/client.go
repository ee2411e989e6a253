// Package api is a client for the portfolio REST API: works, categories and login.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"folio/internal/jsonutil"
	"folio/internal/logging"
)

const (
	// DefaultBaseURL is where the API listens in a local setup.
	DefaultBaseURL = "http://localhost:5678/api"
	// DefaultTimeout bounds a single request when the caller's context has no deadline.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-request UUID for correlating client and server logs.
	RequestIDHeader = "X-Request-ID"

	tracerName   = "folio/api"
	maxErrorBody = 4 << 10
)

// Client talks to the portfolio API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tracer  oteltrace.Tracer
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTracer sets the tracer used for request spans.
func WithTracer(t oteltrace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout sets the per-request timeout applied when ctx has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a client rooted at baseURL (e.g. "http://localhost:5678/api").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		tracer:  otel.Tracer(tracerName),
		logger:  logging.Discard(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListWorks fetches every work (GET /works).
func (c *Client) ListWorks(ctx context.Context) ([]Work, error) {
	resp, err := c.do(ctx, "list works", http.MethodGet, "/works", "", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, "list works", http.StatusOK); err != nil {
		return nil, err
	}
	return jsonutil.DecodeArray[Work](resp.Body, "decoding works")
}

// ListCategories fetches the categories used by the filter bar (GET /categories).
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	resp, err := c.do(ctx, "list categories", http.MethodGet, "/categories", "", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, "list categories", http.StatusOK); err != nil {
		return nil, err
	}
	return jsonutil.DecodeArray[Category](resp.Body, "decoding categories")
}

// Login exchanges credentials for a token (POST /users/login).
// Any status other than 200 is returned as a *StatusError.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	body, err := jsonutil.Encode(creds, "encoding credentials")
	if err != nil {
		return LoginResult{}, err
	}
	resp, err := c.do(ctx, "login", http.MethodPost, "/users/login", "", bytes.NewReader(body), "application/json")
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, "login", http.StatusOK); err != nil {
		return LoginResult{}, err
	}
	var res LoginResult
	if err := jsonutil.Decode(resp.Body, &res, "decoding login result"); err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("login: response carried no token")
	}
	return res, nil
}

// CreateWork uploads a new work as multipart form data (POST /works).
// The API answers 201 with the stored work.
func (c *Client) CreateWork(ctx context.Context, token string, w NewWork) (Work, error) {
	body, contentType, err := encodeWorkForm(w)
	if err != nil {
		return Work{}, err
	}
	resp, err := c.do(ctx, "create work", http.MethodPost, "/works", token, body, contentType)
	if err != nil {
		return Work{}, err
	}
	defer resp.Body.Close()
	if err := expectStatus(resp, "create work", http.StatusCreated); err != nil {
		return Work{}, err
	}
	var created Work
	if err := jsonutil.Decode(resp.Body, &created, "decoding created work"); err != nil {
		return Work{}, err
	}
	return created, nil
}

// DeleteWork removes a work by ID (DELETE /works/{id}).
func (c *Client) DeleteWork(ctx context.Context, token string, id int) error {
	resp, err := c.do(ctx, "delete work", http.MethodDelete, "/works/"+strconv.Itoa(id), token, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, "delete work", http.StatusOK, http.StatusNoContent)
}

// do issues one traced request. The caller owns resp.Body; closing it also
// releases the timeout context.
func (c *Client) do(ctx context.Context, op, method, path, token string, body io.Reader, contentType string) (*http.Response, error) {
	cancel := context.CancelFunc(func() {})
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	resp, err := c.send(ctx, op, method, path, token, body, contentType)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) send(ctx context.Context, op, method, path, token string, body io.Reader, contentType string) (*http.Response, error) {
	target := c.baseURL.String() + path
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, op, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		semconv.HTTPMethodKey.String(method),
		semconv.HTTPURLKey.String(target),
		attribute.String("folio.request.id", requestID),
	)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("api request failed", "op", op, "method", method, "url", target, "request_id", requestID, "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	c.logger.Debug("api request",
		"op", op,
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)
	return resp, nil
}

// expectStatus returns a *StatusError unless resp.StatusCode is one of want.
func expectStatus(resp *http.Response, op string, want ...int) error {
	for _, w := range want {
		if resp.StatusCode == w {
			return nil
		}
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

// encodeWorkForm builds the multipart body with fields image, title and category.
func encodeWorkForm(w NewWork) (io.Reader, string, error) {
	if w.Image == nil {
		return nil, "", fmt.Errorf("create work: no image")
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	ct := w.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, w.Filename))
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create work: image part: %w", err)
	}
	if _, err := io.Copy(part, w.Image); err != nil {
		return nil, "", fmt.Errorf("create work: copying image: %w", err)
	}
	if err := mw.WriteField("title", w.Title); err != nil {
		return nil, "", fmt.Errorf("create work: title field: %w", err)
	}
	if err := mw.WriteField("category", strconv.Itoa(w.CategoryID)); err != nil {
		return nil, "", fmt.Errorf("create work: category field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("create work: closing form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
