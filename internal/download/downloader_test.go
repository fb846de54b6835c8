package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// countingServer records the User-Agent of every request and serves the
// configured status/body.
type countingServer struct {
	mu         sync.Mutex
	userAgents []string

	handler func(n int, w http.ResponseWriter, r *http.Request)
}

func (s *countingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.userAgents = append(s.userAgents, r.Header.Get("User-Agent"))
	n := len(s.userAgents)
	s.mu.Unlock()

	s.handler(n, w, r)
}

func (s *countingServer) requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.userAgents)
}

func newTestDownloader() *HTTPDownloader {
	return NewHTTPDownloader(WithRetryWait(0), WithOutput(io.Discard))
}

func TestDownload_Success(t *testing.T) {
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("logo-bytes"))
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "AAA.png")
	dl := newTestDownloader()

	if err := dl.Download(context.Background(), server.URL+"/a.png", dest); err != nil {
		t.Fatalf("Download() returned unexpected error: %v", err)
	}

	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination file not written: %v", err)
	}
	if string(b) != "logo-bytes" {
		t.Errorf("file content = %q, want %q", b, "logo-bytes")
	}

	if srv.requests() != 1 {
		t.Errorf("server received %d requests, want 1", srv.requests())
	}
	if srv.userAgents[0] != userAgents[0] {
		t.Errorf("first attempt User-Agent = %q, want %q", srv.userAgents[0], userAgents[0])
	}
}

func TestDownload_SendsAuxiliaryHeaders(t *testing.T) {
	var accept, lang string
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		lang = r.Header.Get("Accept-Language")
		w.WriteHeader(http.StatusOK)
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	dl := newTestDownloader()
	dest := filepath.Join(t.TempDir(), "AAA.png")

	if err := dl.Download(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Download() returned unexpected error: %v", err)
	}

	if accept != "image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8" {
		t.Errorf("Accept header = %q", accept)
	}
	if lang != "en-US,en;q=0.9" {
		t.Errorf("Accept-Language header = %q", lang)
	}
}

func TestDownload_AlreadyExists(t *testing.T) {
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "AAA.png")
	if err := os.WriteFile(dest, []byte("from a prior run"), 0o644); err != nil {
		t.Fatalf("failed to seed destination: %v", err)
	}

	dl := newTestDownloader()
	if err := dl.Download(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Download() returned unexpected error: %v", err)
	}

	if srv.requests() != 0 {
		t.Errorf("server received %d requests, want 0 for existing file", srv.requests())
	}

	b, _ := os.ReadFile(dest)
	if string(b) != "from a prior run" {
		t.Errorf("existing file was overwritten: %q", b)
	}
}

func TestDownload_RetryExhausted(t *testing.T) {
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "AAA.png")
	dl := newTestDownloader()

	err := dl.Download(context.Background(), server.URL+"/missing.png", dest)
	if err == nil {
		t.Fatal("Download() expected error after retry exhaustion, got nil")
	}

	if srv.requests() != len(userAgents) {
		t.Errorf("server received %d requests, want %d", srv.requests(), len(userAgents))
	}

	// Each attempt rotates to the next User-Agent in the fixed order.
	for i, ua := range srv.userAgents {
		if ua != userAgents[i] {
			t.Errorf("attempt %d User-Agent = %q, want %q", i+1, ua, userAgents[i])
		}
	}

	var derr *DownloadError
	if !errors.As(err, &derr) {
		t.Fatalf("Download() error type = %T, want *DownloadError", err)
	}
	if derr.Type != ErrorTypeExhausted {
		t.Errorf("error type = %q, want %q", derr.Type, ErrorTypeExhausted)
	}

	var cause *DownloadError
	if !errors.As(derr.Cause, &cause) || cause.Type != ErrorTypeNotFound {
		t.Errorf("exhaustion cause = %v, want not_found error", derr.Cause)
	}
}

func TestDownload_EventualSuccess(t *testing.T) {
	// Fails the first three attempts, succeeds on the fourth.
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		if n < 4 {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("not the logo"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("fourth-try-bytes"))
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "AAA.png")
	dl := newTestDownloader()

	if err := dl.Download(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Download() returned unexpected error: %v", err)
	}

	if srv.requests() != 4 {
		t.Errorf("server received %d requests, want 4", srv.requests())
	}

	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination file not written: %v", err)
	}
	if string(b) != "fourth-try-bytes" {
		t.Errorf("file content = %q, want the successful attempt's body", b)
	}
}

func TestDownload_NoPartialFileOnFailure(t *testing.T) {
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("error page"))
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "AAA.png")
	dl := newTestDownloader()

	if err := dl.Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("Download() expected error, got nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files after failure, found %d", len(entries))
	}
}

func TestDownload_TransportError(t *testing.T) {
	// A server that is immediately closed yields connection-refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	dest := filepath.Join(t.TempDir(), "AAA.png")
	dl := newTestDownloader()

	err := dl.Download(context.Background(), url, dest)
	if err == nil {
		t.Fatal("Download() expected transport error, got nil")
	}

	var derr *DownloadError
	if !errors.As(err, &derr) {
		t.Fatalf("Download() error type = %T, want *DownloadError", err)
	}

	var cause *DownloadError
	if !errors.As(derr.Cause, &cause) || cause.Type != ErrorTypeTransport {
		t.Errorf("exhaustion cause = %v, want transport error", derr.Cause)
	}
}

func TestDownload_ContextCancellation(t *testing.T) {
	srv := &countingServer{handler: func(n int, w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}}
	server := httptest.NewServer(srv)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "AAA.png")
	dl := newTestDownloader()

	if err := dl.Download(ctx, server.URL, dest); err == nil {
		t.Error("Download() expected error for cancelled context, got nil")
	}
}

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorType
	}{
		{403, ErrorTypeForbidden},
		{404, ErrorTypeNotFound},
		{429, ErrorTypeHTTP},
		{500, ErrorTypeHTTP},
		{301, ErrorTypeHTTP},
	}

	for _, tt := range tests {
		if got := ClassifyHTTPStatus(tt.status); got.Type != tt.expected {
			t.Errorf("ClassifyHTTPStatus(%d).Type = %q, want %q", tt.status, got.Type, tt.expected)
		}
	}
}
