package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Options{})
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	if c.Timeout() != DefaultTimeout {
		t.Fatalf("Timeout = %s, want %s", c.Timeout(), DefaultTimeout)
	}
	if DefaultTimeout != 5000*time.Millisecond {
		t.Fatalf("DefaultTimeout changed: %s", DefaultTimeout)
	}
}

func TestDoPrefixesBaseURL(t *testing.T) {
	var gotPath, gotQuery, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = strings.TrimSpace(string(raw))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/", Timeout: time.Second})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/items",
		Query:  map[string]string{"a": "1"},
		Body:   map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusAccepted || string(resp.Body()) != "ok" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}
	if gotPath != "/items" || gotQuery != "a=1" {
		t.Fatalf("unexpected target %s?%s", gotPath, gotQuery)
	}
	if gotType != "application/json" || gotBody != `{"k":"v"}` {
		t.Fatalf("unexpected body %q (%s)", gotBody, gotType)
	}
}

func TestDoTimesOutWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/slow"})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Fatalf("expected IsTimeout, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}
}

func TestIsTimeoutIgnoresOtherErrors(t *testing.T) {
	if IsTimeout(nil) {
		t.Fatalf("nil is not a timeout")
	}
	if IsTimeout(io.EOF) {
		t.Fatalf("EOF is not a timeout")
	}
	if !IsTimeout(context.DeadlineExceeded) {
		t.Fatalf("deadline exceeded is a timeout")
	}
}
