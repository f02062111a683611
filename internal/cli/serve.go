package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/syllabus/internal/config"
	"github.com/aretw0/syllabus/internal/metrics"
	httpAdapter "github.com/aretw0/syllabus/pkg/adapters/http"
	"github.com/aretw0/syllabus/pkg/adapters/mcp"
)

// ServeOptions configures the network surfaces.
type ServeOptions struct {
	Config    config.Config
	Port      int
	Transport string
	Output    io.Writer
}

// RunServe exposes the engine over the HTTP JSON API until ctx is cancelled.
func RunServe(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(opts.Config.Debug)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	streams := httpAdapter.NewStreamManager(logger)

	engine, err := createEngine(opts.Config, logger, m.Hooks(), streams.Hooks())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", opts.Port),
		Handler: httpAdapter.NewHandler(engine,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		),
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(opts.Output, "Starting Syllabus Server on %s\n", srv.Addr)
		fmt.Fprintf(opts.Output, "Serving curriculum from: %s\n", opts.Config.Dir)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-sigCtx.Done():
		fmt.Fprintf(opts.Output, "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		fmt.Fprintln(opts.Output, "Syllabus Server stopped gracefully")
		return nil
	}
}

// RunMCP exposes the engine as an MCP server over stdio or SSE.
func RunMCP(ctx context.Context, opts ServeOptions) error {
	// Stdout carries JSON-RPC, so logs always go to stderr.
	logger := createLogger(opts.Config.Debug)

	engine, err := createEngine(opts.Config, logger)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(engine, mcp.WithLogger(logger))

	switch opts.Transport {
	case "stdio", "":
		logger.Info("Starting Syllabus MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		sigCtx := NewSignalContext(ctx)
		defer sigCtx.Cancel()

		logger.Info("Starting Syllabus MCP Server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(sigCtx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
