// Package main provides the docsense binary entry point.
// Docsense is a document comprehension assistant: upload a document,
// receive a summary, ask questions against it, generate challenge
// questions, and have answers graded against the source text.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	// Register model providers via init()
	_ "github.com/c360studio/docsense/llm/providers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/c360studio/docsense/assistant"
	"github.com/c360studio/docsense/config"
	"github.com/c360studio/docsense/extract"
	"github.com/c360studio/docsense/httpapi"
	"github.com/c360studio/docsense/llm"
	"github.com/c360studio/docsense/model"
	"github.com/c360studio/docsense/store"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "docsense"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "docsense",
		Short: "Document comprehension assistant",
		Long: `Docsense serves a document comprehension API backed by LLM providers.

It provides:
- Document upload (.txt, .pdf) with automatic summarization
- Free-form question answering grounded in the document
- Challenge question generation and answer grading

Model selection is capability-based with health-tracked fallback chains.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, addr, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, addr, logLevel string) error {
	cfg, usedConfigPath, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if addr != "" {
		cfg.Server.Addr = addr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx := context.Background()
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	// Model registry: defaults, then config overrides.
	registry := model.NewDefaultRegistry()
	cfg.ApplyToRegistry(registry)

	// Shared metrics registry for HTTP and completion instrumentation.
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())

	client := llm.NewClient(registry,
		llm.WithLogger(logger),
		llm.WithMetrics(llm.NewMetrics(promReg)),
	)

	docs := store.New()
	asst := assistant.New(docs, client, assistant.WithLogger(logger))

	server := httpapi.NewServer(docs, extract.NewRegistry(), asst,
		httpapi.WithLogger(logger),
		httpapi.WithMetricsRegistry(promReg),
	)

	// Hot-reload model endpoints when the config file changes.
	if usedConfigPath != "" {
		watcher, err := config.NewWatcher(usedConfigPath, registry, logger)
		if err != nil {
			logger.Warn("Config watcher unavailable", "error", err)
		} else if err := watcher.Start(signalCtx); err != nil {
			logger.Warn("Config watcher failed to start", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Docsense ready",
			"version", Version,
			"addr", cfg.Server.Addr,
			"providers", llm.ListProviders())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-signalCtx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}

	logger.Info("Docsense shutdown complete")
	return nil
}

// loadConfig loads the explicit config file when given, otherwise the
// layered loader (defaults, user config, project config). Returns the path
// actually loaded so the watcher can follow it.
func loadConfig(configPath string) (*config.Config, string, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, "", err
		}
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
		return cfg, configPath, nil
	}

	loader := config.NewLoader(slog.Default())
	cfg, err := loader.Load()
	if err != nil {
		return nil, "", err
	}
	return cfg, loader.FindProjectConfig(), nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
