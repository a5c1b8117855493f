// Package fauxhttp holds the runtime pieces generated faux clients are
// built on: request construction against a named service, invocation with
// status checking, body and header conversion, and the Task/Future async
// completion types.
package fauxhttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Doer sends a request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver maps a logical service name to the base URL it is served at
type Resolver interface {
	Resolve(service string) (*url.URL, error)
}

// ResolverFunc adapts a function to a Resolver
type ResolverFunc func(service string) (*url.URL, error)

func (f ResolverFunc) Resolve(service string) (*url.URL, error) {
	return f(service)
}

// DefaultResolver treats the service name as a host: http://<service>
var DefaultResolver Resolver = ResolverFunc(func(service string) (*url.URL, error) {
	if service == "" {
		return nil, ErrNoService
	}
	return &url.URL{Scheme: "http", Host: service}, nil
})

// StaticResolver resolves every service to the same base URL
func StaticResolver(rawURL string) Resolver {
	return ResolverFunc(func(string) (*url.URL, error) {
		return url.Parse(rawURL)
	})
}

// Option configures a Base
type Option func(*Base)

// WithResolver overrides service resolution
func WithResolver(r Resolver) Option {
	return func(b *Base) {
		if r != nil {
			b.resolver = r
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Base) {
		b.logger = logger
	}
}

// WithHeader adds a header sent with every request
func WithHeader(name, value string) Option {
	return func(b *Base) {
		b.headers.Add(name, value)
	}
}

// Base carries the service context shared by all methods of a generated
// client. Generated clients embed it.
type Base struct {
	doer     Doer
	service  string
	route    string
	resolver Resolver
	logger   zerolog.Logger
	headers  http.Header
}

// NewBase creates the shared client state. A nil doer uses http.DefaultClient.
func NewBase(doer Doer, service, route string, opts ...Option) Base {
	if doer == nil {
		doer = http.DefaultClient
	}

	b := Base{
		doer:     doer,
		service:  service,
		route:    route,
		resolver: DefaultResolver,
		logger:   zerolog.Nop(),
		headers:  make(http.Header),
	}
	for _, opt := range opts {
		opt(&b)
	}

	return b
}

// Service returns the logical service name
func (b *Base) Service() string {
	return b.service
}

// Route returns the base route prefixed to every path
func (b *Base) Route() string {
	return b.route
}

var placeholderRegex = regexp.MustCompile(`\{([^{}]+)\}`)

// CreateRequest builds a request for verb and the path template. Placeholders
// in path are replaced from vars; params become the query string.
func (b *Base) CreateRequest(ctx context.Context, verb, path string, vars map[string]any, params url.Values) (*http.Request, error) {
	base, err := b.resolver.Resolve(b.service)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service %q: %w", b.service, err)
	}

	expanded, err := ExpandPath(path, vars)
	if err != nil {
		return nil, err
	}

	target := strings.TrimRight(base.String(), "/")
	if route := strings.Trim(b.route, "/"); route != "" {
		target += "/" + route
	}
	target += "/" + strings.TrimLeft(expanded, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, verb, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for name, values := range b.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	return req, nil
}

// ExpandPath substitutes {name} placeholders with path-escaped values
func ExpandPath(path string, vars map[string]any) (string, error) {
	var missing string
	expanded := placeholderRegex.ReplaceAllStringFunc(path, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		s, ok, err := formatValue(v)
		if (err != nil || !ok) && missing == "" {
			missing = name
		}
		return url.PathEscape(s)
	})

	if missing != "" {
		return "", fmt.Errorf("%w: {%s} in %q", ErrUnboundPlaceholder, missing, path)
	}
	return expanded, nil
}

// Attach sets the request body and its content type. A content type already
// present on the request is kept.
func (b *Base) Attach(req *http.Request, c *Content) {
	if c == nil {
		return
	}

	body := c.Body
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	if c.ContentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", c.ContentType)
	}
}

// Invoke sends req and checks the status. A non-2xx response is returned as
// a *StatusError with the body already consumed.
func (b *Base) Invoke(req *http.Request) (*http.Response, error) {
	b.logger.Debug().
		Str("service", b.service).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("invoking")

	resp, err := b.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		b.logger.Debug().
			Str("service", b.service).
			Int("status", resp.StatusCode).
			Msg("request failed")

		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Method:     req.Method,
			URL:        req.URL.String(),
			Header:     resp.Header,
			Body:       body,
		}
	}

	return resp, nil
}

// InvokeAsync sends req on its own goroutine. If Await gives up before the
// response arrives, the response is discarded once it does.
func (b *Base) InvokeAsync(req *http.Request) *Future[*http.Response] {
	f := Go(func() (*http.Response, error) {
		return b.Invoke(req)
	})
	f.release = func(resp *http.Response) {
		_ = Discard(resp)
	}
	return f
}

// Discard drains and closes the response body
func Discard(resp *http.Response) error {
	if resp == nil || resp.Body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
