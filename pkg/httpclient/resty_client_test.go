package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRestyClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		w.Header().Set("X-Dial", "1")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	resp, err := NewRestyClient(2*time.Second).Do(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"status":"ok"}` {
		t.Fatalf("unexpected body %q", resp.Body())
	}
	if resp.Header().Get("X-Dial") != "1" {
		t.Fatalf("header not propagated: %v", resp.Header())
	}
}

func TestRestyClientMultipartUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		file, hdr, err := r.FormFile("imgfile")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "png-bytes" || hdr.Filename != "bg.png" {
			t.Fatalf("unexpected upload %q (%s)", data, hdr.Filename)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		File:   &FilePart{Field: "imgfile", FileName: "bg.png", Content: []byte("png-bytes")},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
}

func TestRestyClientDoesNotInterpretStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).Do(context.Background(), Request{URL: srv.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
}

func TestRestyClientTransportErrorHidesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewRestyClient(0).Do(ctx, Request{URL: srv.URL + "/api?key=secret"})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Fatalf("error leaks credentials: %v", err)
	}
}

func TestStatusErrorSnippet(t *testing.T) {
	err := &StatusError{StatusCode: 500, Body: []byte(strings.Repeat("x", 600))}
	if got := len(err.Error()); got > len("http response status 500: ")+bodySnippetLimit {
		t.Fatalf("error message not truncated: %d chars", got)
	}
	if !IsStatus(err, 500) || IsStatus(err, 404) {
		t.Fatalf("IsStatus mismatch")
	}
}
