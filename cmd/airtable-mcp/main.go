// Package main provides the entry point for the airtable-mcp MCP server.
//
// Usage:
//
//	airtable-mcp [apiKey]
//
// The key is normally read from AIRTABLE_API_KEY; the positional form is kept
// for older client configurations.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/agentx-mcp/internal/airtable"
	"github.com/raphaelgruber/agentx-mcp/internal/config"
	"github.com/raphaelgruber/agentx-mcp/internal/metrics"
	"github.com/raphaelgruber/agentx-mcp/internal/server"
	"github.com/raphaelgruber/agentx-mcp/internal/tools"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the server and returns the process exit code. Deferred cleanup
// always runs before the caller exits.
func run(args []string) int {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON). Stdout carries the protocol.
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()

	apiKey, source := config.ResolveAirtableKey(args, cfg)

	logger.Info("airtable-mcp starting",
		"version", version,
		"credential_source", source,
		"debug_transport", cfg.DebugTransport,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	collector := metrics.NewCollector()

	// Missing credential is not fatal: tools stay listed and explain the fix.
	var svc airtable.Service
	switch source {
	case "":
		logger.Warn("no Airtable API key configured; tool calls will fail until AIRTABLE_API_KEY is set")
	case config.SourceArgument:
		logger.Warn("passing the API key as an argument is deprecated; set AIRTABLE_API_KEY instead")
		fallthrough
	default:
		client, err := airtable.NewClient(
			airtable.Config{APIKey: apiKey, BaseURL: cfg.AirtableBaseURL},
			airtable.WithLogger(logger),
			airtable.WithCollector(collector),
		)
		if err != nil {
			logger.Error("failed to create airtable client", "error", err)
			return 1
		}
		svc = client
	}

	// Create and setup server
	opts := []server.Option{server.WithCollector(collector)}
	if cfg.DebugTransport {
		opts = append(opts, server.WithTransportTrace(os.Stderr))
	}
	srv := server.New(version, logger, opts...)
	srv.Setup()

	// Register tools
	n := tools.RegisterAll(srv.MCPServer(), &tools.Dependencies{
		Airtable: svc,
		Logger:   logger,
	})
	logger.Info("tools registered", "count", n)

	logger.Info("server ready, awaiting connections")

	// Run server (blocks until stdin closes or context cancelled).
	// A client closing stdin returns nil.
	err := srv.Run(ctx)

	snap := collector.Snapshot()
	for _, name := range snap.Names() {
		op := snap.Operations[name]
		logger.Info("operation stats", "op", name, "count", op.Count, "errors", op.Errors, "avg_ms", op.AvgTimeMs)
	}

	if err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}
