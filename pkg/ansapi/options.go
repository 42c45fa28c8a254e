package ansapi

import (
	"net/url"

	"github.com/samvad-hq/ans-operadoras/pkg/httpclient"
)

// Option adjusts a single request. Options run after params are applied.
type Option func(*httpclient.RequestOptions)

// WithHeader sets a header for this request, overriding client defaults.
func WithHeader(key, value string) Option {
	return func(ro *httpclient.RequestOptions) {
		if ro.Headers == nil {
			ro.Headers = make(map[string]string, 1)
		}
		ro.Headers[key] = value
	}
}

// WithHeaders merges headers into this request.
func WithHeaders(headers map[string]string) Option {
	return func(ro *httpclient.RequestOptions) {
		for k, v := range headers {
			WithHeader(k, v)(ro)
		}
	}
}

// WithQuery replaces the values of key in the query string.
func WithQuery(key string, values ...string) Option {
	return func(ro *httpclient.RequestOptions) {
		if ro.Query == nil {
			ro.Query = url.Values{}
		}
		ro.Query[key] = append([]string(nil), values...)
	}
}
