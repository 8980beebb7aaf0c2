package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@b.com"})
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "tok-123" }, nil)
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "" }, nil)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestClient_DecodesDetailError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Email already registered"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	_, err := c.Signup(context.Background(), "a@b.com", "ana", "secret1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected 400, got %v", err)
	}
	if detail := ErrorDetail(err); detail != "Email already registered" {
		t.Fatalf("unexpected detail: %q", detail)
	}
}

func TestClient_UnauthorizedHookFiresOnAny401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	calls := 0
	c := New(srv.URL, func() string { return "stale" }, func() { calls++ })

	if _, err := c.Me(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected hook fired once, got %d", calls)
	}

	// El hook es por-respuesta, no por-endpoint.
	if _, err := c.TranslationStatus(context.Background()); !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected hook fired twice, got %d", calls)
	}
}

func TestClient_HookNotFiredOnSuccessOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	calls := 0
	c := New(srv.URL, nil, func() { calls++ })

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if _, err := c.Me(context.Background()); !IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected 500, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected hook not fired, got %d", calls)
	}
}

func TestClient_NetworkErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // el puerto queda cerrado: conexión rechazada

	c := New(srv.URL, nil, nil)
	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	if !IsConnectionRefused(err) {
		t.Fatalf("expected connection refused, got %v", err)
	}
	if ErrorDetail(err) != "" {
		t.Fatalf("expected no detail for transport error")
	}
}

func TestClient_DefaultBaseURL(t *testing.T) {
	c := New("", nil, nil)
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("unexpected base url: %q", c.BaseURL())
	}
}
