// Package client sends meeting transcripts to the analysis backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/yildizm/MeetSum/internal/logger"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// FormField is the multipart field the backend reads the transcript from.
const FormField = "file"

// Response is a successful analysis exchange.
type Response struct {
	// Body is the raw JSON returned by the backend
	Body []byte

	// Value is Body decoded with json.Number numbers
	Value any

	StatusCode int
	Duration   time.Duration
}

// HealthStatus is the backend liveness report.
type HealthStatus struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Option configures a Client.
type Option func(*Client)

// WithProgress draws an upload progress bar on w.
func WithProgress(w io.Writer) Option {
	return func(c *Client) {
		c.progress = w
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client talks to the analysis backend
type Client struct {
	config   *Config
	http     *http.Client
	baseURL  *url.URL
	progress io.Writer
	log      *logger.Logger
}

// New creates a client from a validated configuration
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil || baseURL.Host == "" {
		return nil, NewConfigurationError("base_url", fmt.Sprintf("invalid base URL %q", config.BaseURL))
	}

	c := &Client{
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the absolute upload URL.
func (c *Client) Endpoint() string {
	return c.baseURL.JoinPath(c.config.ProcessPath).String()
}

// MaxUploadBytes is the configured transcript size limit.
func (c *Client) MaxUploadBytes() int64 {
	return c.config.MaxUploadBytes()
}

// Analyze uploads a transcript and returns the decoded analysis. There are
// no retries: every failure is returned as a *TransportError.
func (c *Client) Analyze(ctx context.Context, up Upload) (*Response, error) {
	if err := up.Validate(c.config.MaxUploadBytes()); err != nil {
		return nil, err
	}

	body, contentType, err := encodeMultipart(up)
	if err != nil {
		return nil, NewTransportErrorWithCause(ErrTypeValidation, "failed to encode upload", err)
	}
	size := int64(body.Len())

	var reader io.Reader = body
	if c.progress != nil {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionSetDescription("Uploading "+up.Filename),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(c.progress)
			}),
		)
		pr := progressbar.NewReader(body, bar)
		reader = &pr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), reader)
	if err != nil {
		return nil, NewTransportErrorWithCause(ErrTypeConfiguration, "failed to create request", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	c.log.DebugWithFields("uploading transcript", []logger.Field{
		logger.F("file", up.Filename),
		logger.F("bytes", up.Size()),
		logger.F("endpoint", c.Endpoint()),
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyDoError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyDoError(ctx, err)
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := backendMessage(raw)
		c.log.WarnWithFields("analysis rejected", []logger.Field{
			logger.F("status", resp.StatusCode),
			logger.F("message", msg),
		})
		return nil, NewStatusError(resp.StatusCode, msg)
	}

	value, err := presenter.Decode(raw)
	if err != nil {
		return nil, NewTransportErrorWithCause(ErrTypeDecode, "Backend returned an invalid response", err)
	}

	c.log.InfoWithFields("analysis received", []logger.Field{
		logger.F("file", up.Filename),
		logger.F("status", resp.StatusCode),
		logger.Duration(elapsed),
	})

	return &Response{
		Body:       raw,
		Value:      value,
		StatusCode: resp.StatusCode,
		Duration:   elapsed,
	}, nil
}

// Health queries the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	path := c.config.HealthPath
	if path == "" {
		path = "/healthz"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath(path).String(), http.NoBody)
	if err != nil {
		return nil, NewTransportErrorWithCause(ErrTypeConfiguration, "failed to create request", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyDoError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyDoError(ctx, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusError(resp.StatusCode, backendMessage(raw))
	}

	var status HealthStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, NewTransportErrorWithCause(ErrTypeDecode, "Backend returned an invalid health response", err)
	}
	return &status, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
}

func encodeMultipart(up Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(FormField, up.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(up.Content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func classifyDoError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTransportErrorWithCause(ErrTypeTimeout, "The analysis backend did not respond in time", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewTransportErrorWithCause(ErrTypeNetwork, "Upload cancelled", err)
	}
	return NewTransportErrorWithCause(ErrTypeNetwork, "Could not reach the analysis backend", err)
}

// backendMessage pulls the reason out of an error body. The backend uses
// either {"error": "..."} or {"detail": ...}; detail may be a string or a
// list of {"msg": "..."} objects.
func backendMessage(raw []byte) string {
	var body struct {
		Error  any `json:"error"`
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return DefaultFailureMessage
	}

	for _, v := range []any{body.Error, body.Detail} {
		if msg := messageFrom(v); msg != "" {
			return msg
		}
	}
	return DefaultFailureMessage
}

func messageFrom(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		if msg, ok := val["msg"].(string); ok {
			return msg
		}
		if msg, ok := val["message"].(string); ok {
			return msg
		}
	case []any:
		msgs := make([]string, 0, len(val))
		for _, item := range val {
			if msg := messageFrom(item); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
