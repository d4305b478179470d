package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oddsight/oddsight/internal/app"
	"github.com/oddsight/oddsight/internal/config"
	"github.com/oddsight/oddsight/internal/observability"
	"github.com/oddsight/oddsight/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("shutdown tracing", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Error("stop profiler", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Error("stop pprof", "error", err)
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("close app", "error", err)
		}
	}()

	logger.Info("ingest service starting",
		"sources", len(cfg.Sources),
		"ingest_interval", cfg.IngestInterval.String(),
		"live_poll_interval", cfg.LivePollInterval.String(),
	)

	go runIngestLoop(ctx, application, logger)
	if application.Live != nil {
		go runLivePollLoop(ctx, application, logger)
	}

	<-ctx.Done()
	logger.Info("ingest service stopping")
}

func runIngestLoop(ctx context.Context, application *app.App, logger *logging.Logger) {
	ticker := time.NewTicker(application.Config.IngestInterval)
	defer ticker.Stop()

	for {
		report, err := application.Ingest.Run(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "ingest run failed", "error", err)
		} else {
			logger.InfoContext(ctx, "ingest run complete",
				"run_id", report.RunID,
				"sports_stored", report.SportsStored,
				"sources_failed", report.Failed,
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runLivePollLoop(ctx context.Context, application *app.App, logger *logging.Logger) {
	ticker := time.NewTicker(application.Config.LivePollInterval)
	defer ticker.Stop()

	for {
		if err := application.Live.Poll(ctx); err != nil {
			logger.WarnContext(ctx, "live poll incomplete", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
