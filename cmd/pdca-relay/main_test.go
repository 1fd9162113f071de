package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRun_StartsServerWithValidConfig(t *testing.T) {
	t.Setenv("PORT", "4321")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	var servedAddr string
	var servedHandler http.Handler

	serve := func(addr string, handler http.Handler) error {
		servedAddr = addr
		servedHandler = handler
		return nil
	}

	if err := run(serve); err != nil {
		t.Fatalf("run() returned error: %v", err)
	}

	if servedAddr != ":4321" {
		t.Fatalf("serve addr = %q, want :4321", servedAddr)
	}
	if servedHandler == nil {
		t.Fatal("serve handler is nil")
	}

	// Smoke test the routes to ensure router wiring is intact.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	servedHandler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/health status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	servedHandler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/ status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "pdca-coach-relay") {
		t.Fatalf("root body = %q, want service payload", body)
	}

	// Pre-flight goes through the relay handler.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/coach", nil)
	servedHandler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("OPTIONS /coach status = %d, want 200", rec.Code)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("PORT", "-1")

	serve := func(addr string, handler http.Handler) error {
		t.Fatal("serve should not be called with invalid config")
		return nil
	}

	if err := run(serve); err == nil {
		t.Fatal("run() with invalid PORT succeeded, want error")
	}
}

func TestRun_PropagatesServeError(t *testing.T) {
	t.Setenv("PORT", "4322")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	wantErr := errors.New("address in use")
	serve := func(addr string, handler http.Handler) error {
		return wantErr
	}

	err := run(serve)
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("run() error = %v, want wrapped %v", err, wantErr)
	}
}
