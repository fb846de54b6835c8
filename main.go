package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"logofetcher/internal/config"
	"logofetcher/internal/coordinator"
	"logofetcher/internal/download"
	"logofetcher/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// An unreadable token list is a hard stop; per-record download failures
	// later are not.
	records, err := token.LoadList(cfg.TokenListPath)
	if err != nil {
		log.Fatalf("Failed to load token list: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	coord := coordinator.New(records, download.NewHTTPDownloader(), cfg.LogoDir)

	// Individual download failures are tallied in the summary; the process
	// still exits zero.
	if _, err := coord.Run(ctx); err != nil {
		log.Fatalf("Run aborted: %v", err)
	}
}
