// Package download fetches logo files over HTTP and writes them to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"resty.dev/v3"
)

const (
	// defaultTimeout caps each individual attempt.
	defaultTimeout = 30 * time.Second
	// defaultRetryWait is the fixed pause between attempts.
	defaultRetryWait = 500 * time.Millisecond
)

// userAgents is tried in order, one per attempt: two browser strings first,
// then two command-line tools. Some logo CDNs only answer one kind.
var userAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"curl/7.68.0",
	"wget/1.21.3",
}

// Downloader fetches a single URL to a destination path. A nil return means
// the file is on disk, either freshly downloaded or left by a previous run.
// Callers must skip empty URLs before calling.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// HTTPDownloader implements Downloader with User-Agent rotation and retry.
type HTTPDownloader struct {
	client    *resty.Client
	retryWait time.Duration
	out       io.Writer
}

// Option configures an HTTPDownloader.
type Option func(*HTTPDownloader)

// WithRetryWait overrides the pause between attempts.
func WithRetryWait(d time.Duration) Option {
	return func(h *HTTPDownloader) { h.retryWait = d }
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPDownloader) { h.client.SetTimeout(d) }
}

// WithOutput redirects per-file progress reporting, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(h *HTTPDownloader) { h.out = w }
}

// NewHTTPDownloader creates a downloader with the fixed auxiliary headers
// applied to every attempt.
func NewHTTPDownloader(opts ...Option) *HTTPDownloader {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetHeaders(map[string]string{
			"Accept":          "image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"DNT":             "1",
			"Connection":      "keep-alive",
		})

	h := &HTTPDownloader{
		client:    client,
		retryWait: defaultRetryWait,
		out:       os.Stdout,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Download fetches url into dest. An existing dest reports success without
// any network activity, so re-runs never download twice. Otherwise it makes
// one attempt per User-Agent; only the first attempt's failure is reported
// to the operator, later ones just drive the retry loop at debug level.
func (h *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		fmt.Fprintf(h.out, "✅ %s already exists, skipping\n", filepath.Base(dest))
		return nil
	}

	fmt.Fprintf(h.out, "⬇️  Downloading %s -> %s\n", url, filepath.Base(dest))

	var firstErr error
	for i, ua := range userAgents {
		err := h.attempt(ctx, url, dest, ua)
		if err == nil {
			fmt.Fprintf(h.out, "✅ Successfully downloaded %s\n", filepath.Base(dest))
			return nil
		}

		if i == 0 {
			firstErr = err
			h.report(url, err)
		} else {
			slog.Debug("retrying download",
				"url", url,
				"attempt", i+1,
				"error", err.Error())
		}

		// Small delay between retries, none after the last attempt.
		if i < len(userAgents)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.retryWait):
			}
		}
	}

	return NewExhaustedError(len(userAgents), firstErr)
}

// attempt performs one GET with the given User-Agent and writes the body to
// dest on a 200 response.
func (h *HTTPDownloader) attempt(ctx context.Context, url, dest, userAgent string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(url)

	if err != nil {
		return NewTransportError(err)
	}

	if resp.StatusCode() != http.StatusOK {
		return ClassifyHTTPStatus(resp.StatusCode())
	}

	return writeFile(dest, resp.Bytes())
}

// writeFile writes b to dest through a temp file and a rename, so an
// interrupted run leaves no truncated file behind.
func writeFile(dest string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return NewUnexpectedError(err)
	}

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return NewUnexpectedError(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return NewUnexpectedError(err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return NewUnexpectedError(err)
	}

	return nil
}

// report surfaces a first-attempt failure to the operator. Repeating this for
// every attempt would just be noise.
func (h *HTTPDownloader) report(url string, err error) {
	var derr *DownloadError
	if !errors.As(err, &derr) {
		fmt.Fprintf(h.out, "❌ Unexpected error for %s: %v\n", url, err)
		return
	}

	switch derr.Type {
	case ErrorTypeForbidden:
		fmt.Fprintf(h.out, "❌ Access forbidden for %s: %d\n", url, derr.StatusCode)
	case ErrorTypeNotFound:
		fmt.Fprintf(h.out, "❌ File not found for %s: %d\n", url, derr.StatusCode)
	case ErrorTypeHTTP:
		fmt.Fprintf(h.out, "❌ HTTP error for %s: %d\n", url, derr.StatusCode)
	case ErrorTypeTransport:
		fmt.Fprintf(h.out, "❌ URL error for %s: %v\n", url, derr.Cause)
	default:
		fmt.Fprintf(h.out, "❌ Unexpected error for %s: %v\n", url, derr)
	}
}
