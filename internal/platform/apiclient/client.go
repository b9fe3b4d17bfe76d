// Package apiclient issues the JSON and multipart calls the CX backend exposes.
// It owns transport concerns only: request ids, timeouts, status mapping and
// bounded body reads. Payload shapes belong to the module adapters.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"cxassist/internal/platform/id"
)

const (
	DefaultMaxBodyBytes = 4 << 20
	RequestIDHeader     = "X-Request-ID"
)

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP error! status: %d (%s)", e.Status, e.Detail)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// ResponseTooLargeError reports that a response body exceeded the limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeded limit of %d bytes", e.Limit)
}

// Field is a plain multipart form value.
type Field struct {
	Name  string
	Value string
}

// FilePart is a multipart file upload. Body is read once while the request is built.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Body        io.Reader
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	logger       *zap.Logger
	ids          id.Generator
	maxBodyBytes int64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMaxBodyBytes(limit int64) Option {
	return func(c *Client) { c.maxBodyBytes = limit }
}

func WithIDGenerator(gen id.Generator) Option {
	return func(c *Client) { c.ids = gen }
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
		ids:          id.UUID{},
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON issues GET <base><path>?<query> and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, path, out)
}

// PostJSON encodes in as the request body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, path, out)
}

// PostMultipart sends fields then files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields []Field, files []FilePart, out any) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.FileName)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.FileName, err)
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return fmt.Errorf("copy part %s: %w", f.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	requestID := c.ids.New()
	req.Header.Set(RequestIDHeader, requestID)
	log := c.logger.With(
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("backend request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	body, err := readAllWithLimit(resp.Body, c.maxBodyBytes)
	if err != nil {
		log.Warn("read backend response", zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	log.Debug("backend response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("bytes", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: req.Method, Path: path, Status: resp.StatusCode, Detail: extractDetail(body)}
		log.Warn("backend returned error status", zap.Int("status", resp.StatusCode), zap.String("detail", se.Detail))
		return se
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// extractDetail pulls the FastAPI {"detail": ...} message out of an error body.
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}
	return string(payload.Detail)
}

func readAllWithLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ResponseTooLargeError{Limit: limit}
	}
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
