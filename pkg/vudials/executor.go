package vudials

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vudials/vudials-go/pkg/httpclient"
)

// DefaultTimeout bounds every call that does not set its own timeout.
const DefaultTimeout = 10 * time.Second

const imageField = "imgfile"

// Executor performs single requests with a timeout and turns status codes of
// 400 and above into *httpclient.StatusError.
type Executor struct {
	client  httpclient.Client
	timeout time.Duration
	log     Logger
}

// NewExecutor builds an Executor. A nil client falls back to resty and a
// non-positive timeout to DefaultTimeout.
func NewExecutor(client httpclient.Client, timeout time.Duration, log Logger) *Executor {
	if client == nil {
		client = httpclient.NewRestyClient(0)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{client: client, timeout: timeout, log: ensureLogger(log)}
}

// Execute issues a multipart POST when file is set and a GET otherwise.
func (e *Executor) Execute(ctx context.Context, rawURL string, file *httpclient.FilePart, opts ...CallOption) (httpclient.Response, error) {
	method := http.MethodGet
	if file != nil {
		method = http.MethodPost
	}
	return e.do(ctx, httpclient.Request{Method: method, URL: rawURL, File: file}, opts)
}

// ExecuteMethod issues a POST only for the exact method "post"; anything
// else is sent as GET.
func (e *Executor) ExecuteMethod(ctx context.Context, rawURL, method string, opts ...CallOption) (httpclient.Response, error) {
	verb := http.MethodGet
	if method == methodPost {
		verb = http.MethodPost
	}
	return e.do(ctx, httpclient.Request{Method: verb, URL: rawURL}, opts)
}

func (e *Executor) do(ctx context.Context, req httpclient.Request, opts []CallOption) (httpclient.Response, error) {
	cfg := callOptions{timeout: e.timeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.timeout <= 0 {
		cfg.timeout = e.timeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	start := time.Now()
	path := requestPath(req.URL)

	resp, err := e.client.Do(ctx, req)
	if err != nil {
		e.log.DebugObj("vudials request failed", "vudials_request", map[string]any{
			"method":     req.Method,
			"path":       path,
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		var terr *httpclient.TransportError
		if !errors.As(err, &terr) {
			err = &httpclient.TransportError{Method: req.Method, Err: err}
		}
		return nil, err
	}

	e.log.DebugObj("vudials request completed", "vudials_request", map[string]any{
		"method":     req.Method,
		"path":       path,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, httpclient.NewStatusError(resp)
	}
	return resp, nil
}

// requestPath strips the query (and with it the credential) for logging.
func requestPath(rawURL string) string {
	path, _, _ := strings.Cut(rawURL, "?")
	return path
}
