package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures the shared client. It is read once at construction.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// DefaultHeaders are applied to every request unless overridden per call.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client  *resty.Client
	baseURL string
}

// NewRestyClient validates opts and builds a client. It performs no network I/O.
func NewRestyClient(opts Options) (*RestyClient, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, &url.Error{Op: "parse", URL: base, Err: errors.New("base url must be absolute")}
		}
	}

	c := newRestyBaseClient(opts.Timeout)
	if base != "" {
		c.SetBaseURL(base)
	}
	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}
	return &RestyClient{client: c, baseURL: c.BaseURL}, nil
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// BaseURL returns the normalized base URL (no trailing slash).
func (r *RestyClient) BaseURL() string { return r.baseURL }

// Resty exposes the underlying client for ad-hoc calls.
func (r *RestyClient) Resty() *resty.Client { return r.client }

// Get performs an HTTP GET request.
func (r *RestyClient) Get(ctx context.Context, target string, opts RequestOptions) (Response, error) {
	return r.Do(ctx, http.MethodGet, target, opts)
}

// Do performs a request. Non-2xx responses are reported as *StatusError.
func (r *RestyClient) Do(ctx context.Context, method, target string, opts RequestOptions) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(opts.Query) > 0 {
		req.SetQueryParamsFromValues(opts.Query)
	}
	if len(opts.Headers) > 0 {
		req.SetHeaders(opts.Headers)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, err
	}

	adapted := &restyResponseAdapter{resp: resp}
	if !resp.IsSuccess() {
		return nil, newStatusError(adapted)
	}
	return adapted, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

func (r *restyResponseAdapter) URL() string {
	if r.resp.Request == nil {
		return ""
	}
	if raw := r.resp.Request.RawRequest; raw != nil && raw.URL != nil {
		return raw.URL.String()
	}
	return r.resp.Request.URL
}
