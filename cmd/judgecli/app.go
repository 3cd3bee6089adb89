package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"judge_client/internal/client/judgeapi"
	"judge_client/internal/client/session"
	"judge_client/internal/platform/config"
	"judge_client/internal/platform/database"
	"judge_client/internal/platform/kv"
	"judge_client/internal/platform/storage"
)

// app holds what every command needs. It is built once in the root
// command's Before hook.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *session.Store
	client  *judgeapi.Client
	out     io.Writer
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) (*app, error) {
	a := &app{cfg: cfg, logger: logger, out: out}

	backend, closer := a.openBackend(ctx)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.store = session.New(backend, logger)
	a.store.Restore(ctx)

	client, err := judgeapi.New(judgeapi.Config{
		BaseURL:                cfg.JudgeBaseURL,
		HTTPClient:             &http.Client{Timeout: cfg.HTTPTimeout},
		Auth:                   a.store,
		OnAuthorizationFailure: a.store.Clear,
		Logger:                 logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = client
	return a, nil
}

// openBackend picks the session backing named in the config. A backing that
// cannot be reached is replaced by an in-memory one so the CLI still works
// for anonymous use.
func (a *app) openBackend(ctx context.Context) (storage.Backend, func() error) {
	backend, closer, err := connectBackend(ctx, a.cfg)
	if err != nil {
		a.logger.Warn("session storage unavailable, session will not persist",
			"backend", a.cfg.SessionBackend, "error", err)
		return storage.NewMemory(), nil
	}
	a.logger.Debug("session storage ready", "backend", a.cfg.SessionBackend)
	return backend, closer
}

func connectBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func() error, error) {
	switch cfg.SessionBackend {
	case "memory":
		return storage.NewMemory(), nil, nil

	case "file", "":
		path := cfg.SessionFile
		if path == "" {
			var err error
			if path, err = storage.DefaultFilePath(); err != nil {
				return nil, nil, err
			}
		}
		return storage.NewFile(path), nil, nil

	case "redis":
		rdb, err := kv.Connect(ctx, kv.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedis(rdb, "judge-client:session:"+cfg.SessionNamespace), rdb.Close, nil

	case "postgres":
		db, err := database.Connect(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, nil, err
		}
		backend := storage.NewPostgres(db, cfg.SessionNamespace)
		if err := backend.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return backend, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

func (a *app) Close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.logger.Warn("closing session storage", "error", err)
		}
	}
}
