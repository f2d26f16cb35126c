package httpclient

import (
	"context"
	"net/http"
)

// Response is the raw HTTP response handed back to callers.
type Response interface {
	Body() []byte
	StatusCode() int
	Status() string
	Header() http.Header
}

// FilePart is a single file carried in a multipart/form-data body.
type FilePart struct {
	Field    string
	FileName string
	Content  []byte
}

// Request describes one outgoing call. A non-nil File turns the request into
// a multipart upload.
type Request struct {
	Method string
	URL    string
	File   *FilePart
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req Request) (Response, error)
}
