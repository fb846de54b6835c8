// Package coordinator drives the sequential download loop over the token
// records and aggregates the per-record outcomes.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"logofetcher/internal/download"
	"logofetcher/internal/logo"
	"logofetcher/internal/ratelimit"
	"logofetcher/internal/token"
)

const (
	// defaultPace is the politeness delay inserted after every record.
	defaultPace = 300 * time.Millisecond
	// progressEvery is the number of records between progress lines.
	progressEvery = 20
)

// Stats aggregates the outcomes of one run. It is the only mutable state of
// the loop and is owned solely by Run.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Coordinator processes token records in input order, one at a time.
type Coordinator struct {
	records    []token.Record
	downloader download.Downloader
	logoDir    string
	pace       time.Duration
	out        io.Writer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPace overrides the politeness delay between records.
func WithPace(d time.Duration) Option {
	return func(c *Coordinator) { c.pace = d }
}

// WithOutput redirects progress reporting, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Coordinator) { c.out = w }
}

// New creates a Coordinator that saves logos for the given records under
// logoDir.
func New(records []token.Record, dl download.Downloader, logoDir string, opts ...Option) *Coordinator {
	c := &Coordinator{
		records:    records,
		downloader: dl,
		logoDir:    logoDir,
		pace:       defaultPace,
		out:        os.Stdout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run processes every record in input order. Records without a logo URL are
// skipped before the downloader is ever called; download failures are
// tallied, never fatal. Only context cancellation aborts the loop early.
// The logo directory is created once, idempotently, before processing.
func (c *Coordinator) Run(ctx context.Context) (Stats, error) {
	if err := os.MkdirAll(c.logoDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("failed to create logo directory: %w", err)
	}

	fmt.Fprintf(c.out, "🚀 Starting download of %d token logos...\n\n", len(c.records))

	pacer := ratelimit.NewPacer(c.pace)
	var stats Stats

	for i, rec := range c.records {
		if rec.LogoURL == "" {
			fmt.Fprintf(c.out, "⚠️  No logo URL for %s\n", rec.Symbol)
			stats.Skipped++
		} else {
			dest := filepath.Join(c.logoDir, logo.Filename(rec.Symbol, rec.LogoURL))
			if err := c.downloader.Download(ctx, rec.LogoURL, dest); err != nil {
				stats.Failed++
			} else {
				stats.Downloaded++
			}
		}

		// Politeness delay after every record, whatever the outcome.
		if err := pacer.Wait(ctx); err != nil {
			return stats, err
		}

		if (i+1)%progressEvery == 0 {
			fmt.Fprintf(c.out, "\n📊 Progress: %d/%d processed\n\n", i+1, len(c.records))
		}
	}

	c.printSummary(stats)

	return stats, nil
}

// printSummary prints the final tally plus an independent count of the files
// actually on disk. The two can diverge when prior runs left files behind,
// the directory holds unrelated files, or two symbols sanitized to the same
// name.
func (c *Coordinator) printSummary(stats Stats) {
	fmt.Fprintf(c.out, "\n📊 Final Summary:\n")
	fmt.Fprintf(c.out, "✅ Downloaded: %d\n", stats.Downloaded)
	fmt.Fprintf(c.out, "⚠️  Skipped (no URL): %d\n", stats.Skipped)
	fmt.Fprintf(c.out, "❌ Failed: %d\n", stats.Failed)

	n, err := countFiles(c.logoDir)
	if err != nil {
		fmt.Fprintf(c.out, "📁 Could not count files in %s: %v\n", c.logoDir, err)
		return
	}
	fmt.Fprintf(c.out, "📁 Total files in %s: %d\n", c.logoDir, n)
}

// countFiles returns the number of regular files directly inside dir.
func countFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}

	return n, nil
}
