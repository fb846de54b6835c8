package testutil

import (
	"context"

	"logofetcher/internal/download"
)

// MockDownloader is a mock implementation of the Downloader interface for
// testing. It records every call in order.
type MockDownloader struct {
	DownloadFunc func(ctx context.Context, url, dest string) error

	URLs  []string // URLs passed to Download, in call order.
	Dests []string // Destination paths passed to Download, in call order.
}

var _ download.Downloader = (*MockDownloader)(nil)

// Download implements the Downloader interface
func (m *MockDownloader) Download(ctx context.Context, url, dest string) error {
	m.URLs = append(m.URLs, url)
	m.Dests = append(m.Dests, dest)
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, url, dest)
	}
	return nil
}

// NewMockDownloader creates a simple mock downloader that returns err for
// every call.
func NewMockDownloader(err error) *MockDownloader {
	return &MockDownloader{
		DownloadFunc: func(ctx context.Context, url, dest string) error {
			return err
		},
	}
}
