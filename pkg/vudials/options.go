package vudials

import (
	"time"

	"github.com/vudials/vudials-go/pkg/httpclient"
)

// Option configures a DialClient or AdminClient.
type Option func(*options)

type options struct {
	httpClient httpclient.Client
	timeout    time.Duration
	log        Logger
}

// WithHTTPClient replaces the resty-backed transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithDefaultTimeout sets the timeout used by calls that do not override it.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger enables debug request logging. Query strings are never logged.
func WithLogger(log Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewRestyClient(0)
	}
	o.log = ensureLogger(o.log)
	return o
}

// CallOption adjusts a single call.
type CallOption func(*callOptions)

type callOptions struct {
	timeout time.Duration
}

// WithTimeout overrides the timeout for one call.
func WithTimeout(d time.Duration) CallOption {
	return func(c *callOptions) {
		c.timeout = d
	}
}
