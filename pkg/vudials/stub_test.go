package vudials

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordedRequest struct {
	Method      string
	RequestURI  string
	RawQuery    string
	ContentType string
}

// stubServer records every request and answers with a fixed status and body.
type stubServer struct {
	srv     *httptest.Server
	address string
	port    int

	mu    sync.Mutex
	calls []recordedRequest
}

func newStubServer(t *testing.T, status int, body string) *stubServer {
	t.Helper()
	return newStubServerFunc(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func newStubServerFunc(t *testing.T, h http.HandlerFunc) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, recordedRequest{
			Method:      r.Method,
			RequestURI:  r.RequestURI,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(s.srv.Close)

	addr := s.srv.Listener.Addr().(*net.TCPAddr)
	s.address = addr.IP.String()
	s.port = addr.Port
	return s
}

func (s *stubServer) dialClient(key string, opts ...Option) *DialClient {
	return NewDialClient(s.address, s.port, key, opts...)
}

func (s *stubServer) adminClient(key string, opts ...Option) *AdminClient {
	return NewAdminClient(s.address, s.port, key, opts...)
}

func (s *stubServer) Calls() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordedRequest, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *stubServer) last(t *testing.T) recordedRequest {
	t.Helper()
	calls := s.Calls()
	if len(calls) == 0 {
		t.Fatalf("no request recorded")
	}
	return calls[len(calls)-1]
}

// slowHandler answers after delay, for timeout tests.
func slowHandler(delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}
}
