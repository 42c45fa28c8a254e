package httpclient

import (
	"context"
	"net/http"
	"net/url"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
	// URL is the fully resolved request URL, query string included.
	URL() string
}

// RequestOptions carries per-call additions merged over the client defaults.
type RequestOptions struct {
	Query   url.Values
	Headers map[string]string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Relative URLs are resolved against the client's base URL.
type Client interface {
	Do(ctx context.Context, method, url string, opts RequestOptions) (Response, error)
}
