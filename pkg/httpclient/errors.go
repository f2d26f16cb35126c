package httpclient

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const bodySnippetLimit = 512

// StatusError is returned for responses with a status code of 400 or above.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http response status %d: %s", e.StatusCode, readBodySnippet(e.Body))
}

// NewStatusError builds a StatusError from a response.
func NewStatusError(resp Response) *StatusError {
	return &StatusError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	}
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// TransportError wraps connection, DNS and timeout failures.
// The request URL is deliberately dropped since it carries credentials.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http %s request: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(method string, err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		err = uerr.Err
	}
	return &TransportError{Method: method, Err: err}
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > bodySnippetLimit {
		body = body[:bodySnippetLimit]
	}
	return strings.TrimSpace(string(body))
}
