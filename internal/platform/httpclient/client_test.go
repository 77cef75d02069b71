package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(" bad token \n"))
	}))
	defer srv.Close()

	c := New("test", time.Second, 0)
	req, err := c.NewRequest(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	_, err = c.Do(req)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusForbidden || se.Body != "bad token" {
		t.Fatalf("status error = %+v", se)
	}
	if Retryable(err) {
		t.Fatalf("403 should not be retryable")
	}
}

func TestDoJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing Accept header")
		}
		_, _ = w.Write([]byte(`{"code":"Ok"}`))
	}))
	defer srv.Close()

	c := New("test", time.Second, 100)
	req, _ := c.NewRequest(context.Background(), http.MethodGet, srv.URL, nil)

	var out struct {
		Code string `json:"code"`
	}
	if err := c.DoJSON(req, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Code != "Ok" {
		t.Fatalf("code = %q", out.Code)
	}
}

func TestDoWithRetryRecoversFromTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New("test", time.Second, 0)
	ctx := context.Background()
	resp, err := c.DoWithRetry(ctx, func() (*http.Request, error) {
		return c.NewRequest(ctx, http.MethodGet, srv.URL, nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}
