// Package transport is the single request path to the commerce gateway. It
// normalizes headers, classifies status codes and decodes bodies so callers
// never parse an empty response as JSON.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/reqctx"
)

const (
	HeaderRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
)

var ErrEmptyResult = errors.New("empty response body")

// Adapter performs one call against the gateway.
type Adapter interface {
	Do(ctx context.Context, req Request) (*Result, error)
}

type Request struct {
	Method string
	Path   string // joined to the API base, e.g. "/listings"
	Body   any    // marshalled as JSON unless []byte or string
	Header http.Header
}

type Kind int

const (
	KindJSON Kind = iota + 1
	KindText
)

// Result is a classified non-empty success body. An empty body is reported
// as a nil *Result.
type Result struct {
	Kind Kind
	Body []byte
}

// Decode unmarshals a JSON result into v. A nil result yields ErrEmptyResult.
func (r *Result) Decode(v any) error {
	if r == nil {
		return ErrEmptyResult
	}
	if r.Kind != KindJSON {
		return fmt.Errorf("decode: response is %s, not json", r.kindName())
	}
	return json.Unmarshal(r.Body, v)
}

// Text returns the raw body, or "" for a nil result.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

func (r *Result) kindName() string {
	if r.Kind == KindJSON {
		return "json"
	}
	return "text"
}

// HTTPError is returned for every non-2xx gateway response. The body is
// not carried.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusText)
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}

type restyAdapter struct {
	client *resty.Client
	logger *slog.Logger
}

var _ Adapter = (*restyAdapter)(nil)

// New returns an Adapter for baseURL (origin plus "/api").
func New(baseURL string, timeout time.Duration, logger *slog.Logger) Adapter {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", contentTypeJSON).
		SetRetryCount(0)
	return NewWithClient(client, logger)
}

// NewWithClient wraps a preconfigured resty client.
func NewWithClient(client *resty.Client, logger *slog.Logger) Adapter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &restyAdapter{client: client, logger: logger}
}

func (a *restyAdapter) Do(ctx context.Context, req Request) (*Result, error) {
	ctx, rid := reqctx.EnsureRID(ctx)
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := a.client.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, rid)
	for key, values := range req.Header {
		if len(values) > 0 {
			r.SetHeader(key, values[0])
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(method, req.Path)
	log := logging.FromContext(ctx, a.logger).With("method", method, "path", req.Path)
	if err != nil {
		log.Warn("gateway call failed", "err", err)
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	log.Debug("gateway call", "status", resp.StatusCode(), "ms", time.Since(start).Milliseconds())

	return Classify(resp.StatusCode(), resp.Status(), resp.Header(), resp.Body())
}

// Classify turns a raw response into a Result, a nil (empty) Result, or an
// HTTPError. status is the full status line text ("404 Not Found") when
// available.
func Classify(code int, status string, header http.Header, body []byte) (*Result, error) {
	switch code {
	case http.StatusNoContent, http.StatusResetContent, http.StatusNotModified:
		return nil, nil
	}
	if code < 200 || code > 299 {
		return nil, &HTTPError{StatusCode: code, StatusText: statusText(code, status)}
	}
	if header.Get("Content-Length") == "0" || len(body) == 0 {
		return nil, nil
	}
	if strings.Contains(header.Get("Content-Type"), contentTypeJSON) {
		if !json.Valid(body) {
			return nil, errors.New("invalid json in response body")
		}
		return &Result{Kind: KindJSON, Body: body}, nil
	}
	return &Result{Kind: KindText, Body: body}, nil
}

func statusText(code int, status string) string {
	// resty reports the status line, e.g. "404 Not Found".
	prefix := fmt.Sprintf("%d ", code)
	if text := strings.TrimPrefix(status, prefix); text != status && text != "" {
		return text
	}
	return http.StatusText(code)
}
