package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vudials/vudials-go/internal/config"
)

type recorded struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (r *recorded) all() []*http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*http.Request(nil), r.reqs...)
}

func newTestEnv(t *testing.T, status int) (*cliEnv, *recorded, *bytes.Buffer) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, r.Clone(context.Background()))
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	port, _ := strconv.Atoi(u.Port())
	out := &bytes.Buffer{}
	env := &cliEnv{
		cfg: &config.Config{
			ServerAddress: u.Hostname(),
			ServerPort:    port,
			APIKey:        "dial key",
			AdminKey:      "admin",
			TargetDialUID: "target",
			HTTPTimeout:   2 * time.Second,
		},
		stdout: out,
		stderr: &bytes.Buffer{},
	}
	return env, rec, out
}

func TestDemoSetsValueAndColorOnTargetDial(t *testing.T) {
	env, rec, out := newTestEnv(t, http.StatusOK)
	cmd, ok := lookupCommand("demo")
	if !ok {
		t.Fatalf("demo command missing")
	}
	if err := cmd.run(context.Background(), env, nil); err != nil {
		t.Fatalf("demo: %v", err)
	}

	reqs := rec.all()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].URL.Path != "/api/v0/dial/target/set" || reqs[0].URL.RawQuery != "key=dial%20key&value=35" {
		t.Fatalf("unexpected value request %s?%s", reqs[0].URL.Path, reqs[0].URL.RawQuery)
	}
	if reqs[1].URL.Path != "/api/v0/dial/target/backlight" || reqs[1].URL.RawQuery != "key=dial%20key&red=70&green=35&blue=70" {
		t.Fatalf("unexpected color request %s?%s", reqs[1].URL.Path, reqs[1].URL.RawQuery)
	}
	if strings.Count(out.String(), `{"status":"ok"}`) != 2 {
		t.Fatalf("expected both bodies printed, got %q", out.String())
	}
}

func TestCreateKeyUsesAdminSchemeAndPost(t *testing.T) {
	env, rec, _ := newTestEnv(t, http.StatusOK)
	cmd, _ := lookupCommand("create-key")
	if err := cmd.run(context.Background(), env, []string{"-name", "My Key", "-dials", "a,b"}); err != nil {
		t.Fatalf("create-key: %v", err)
	}
	reqs := rec.all()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", reqs[0].Method)
	}
	if reqs[0].URL.RawQuery != "admin_key=admin&name=My%20Key&dials=a%2Cb" {
		t.Fatalf("unexpected query %s", reqs[0].URL.RawQuery)
	}
}

func TestDialCommandRequiresUID(t *testing.T) {
	env, rec, _ := newTestEnv(t, http.StatusOK)
	env.cfg.TargetDialUID = ""
	cmd, _ := lookupCommand("status")
	if err := cmd.run(context.Background(), env, nil); err == nil {
		t.Fatalf("expected error without uid")
	}
	if len(rec.all()) != 0 {
		t.Fatalf("no request expected without uid")
	}
}

func TestCommandSurfacesStatusError(t *testing.T) {
	env, _, _ := newTestEnv(t, http.StatusForbidden)
	cmd, _ := lookupCommand("list")
	err := cmd.run(context.Background(), env, nil)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"nope"}, &bytes.Buffer{}, &stderr); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}
