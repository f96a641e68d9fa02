package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

func newTestFetcher() *Fetcher {
	return New(WithRetryDelay(0), WithTimeout(2*time.Second))
}

func TestFetchOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), UserAgent)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1 class="title">hello</h1></body></html>`)) //nolint:errcheck // test helper
	}))
	defer server.Close()

	doc, err := newTestFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := htmlutil.Text(htmlutil.Find(doc, htmlutil.Element("h1"))); got != "hello" {
		t.Errorf("h1 = %q, want %q", got, "hello")
	}
}

func TestFetchStatusClassification(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantErr      error
		wantAttempts int32
	}{
		{"not found", http.StatusNotFound, profile.ErrNotFound, 1},
		{"not modified", http.StatusNotModified, profile.ErrNotFound, 1},
		{"no content", http.StatusNoContent, profile.ErrNoData, 1},
		{"accepted", http.StatusAccepted, profile.ErrNoData, 1},
		{"server error", http.StatusInternalServerError, profile.ErrUpstream, 3},
		{"rate limited", http.StatusTooManyRequests, profile.ErrUpstream, 3},
		{"forbidden", http.StatusForbidden, profile.ErrUpstream, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestFetcher().Fetch(context.Background(), server.URL)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
			if got := attempts.Load(); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestFetchHTTPErrorDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), server.URL+"/octocat")

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Fetch() error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, http.StatusBadGateway)
	}
	if httpErr.URL != server.URL+"/octocat" {
		t.Errorf("URL = %q, want %q", httpErr.URL, server.URL+"/octocat")
	}
}

func TestFetchRecoversAfterTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<p>ok</p>`)) //nolint:errcheck // test helper
	}))
	defer server.Close()

	doc, err := newTestFetcher().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := htmlutil.Text(htmlutil.Find(doc, htmlutil.Element("p"))); got != "ok" {
		t.Errorf("p = %q, want %q", got, "ok")
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), url)
	if !errors.Is(err, profile.ErrUpstream) {
		t.Errorf("Fetch() error = %v, want ErrUpstream", err)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestFetcher().Fetch(ctx, server.URL); err == nil {
		t.Fatal("Fetch() error = nil, want error for canceled context")
	}
	if got := attempts.Load(); got != 0 {
		t.Errorf("attempts = %d, want 0", got)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 500", &HTTPError{StatusCode: 500}, true},
		{"http 429", &HTTPError{StatusCode: 429}, true},
		{"not found", profile.ErrNotFound, false},
		{"no data", profile.ErrNoData, false},
		{"network", errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFetchOptions(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := New(
		WithHTTPClient(server.Client()),
		WithAttempts(1),
		WithRetryDelay(0),
		WithRate(100, 2),
	)
	if _, err := f.Fetch(context.Background(), server.URL); !errors.Is(err, profile.ErrUpstream) {
		t.Fatalf("Fetch() error = %v, want ErrUpstream", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}
