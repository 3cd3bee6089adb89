// Command stubjudge serves the judge API from an in-memory catalogue. It
// never runs submitted code: verdicts come from directives in the source.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"judge_client/internal/app"
	"judge_client/internal/common/security"
	"judge_client/internal/platform/config"
	"judge_client/internal/platform/fixtures"
	"judge_client/internal/platform/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	catalog, err := fixtures.Load(cfg.StubCatalog)
	if err != nil {
		logger.Error("loading catalogue", "path", cfg.StubCatalog, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	judge, err := app.NewStubJudge(ctx, catalog, logger)
	if err != nil {
		logger.Error("building stub judge", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      judge.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("stub judge listening", "port", cfg.APIPort, "problems", len(catalog.Problems))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "port", cfg.APIPort, "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
