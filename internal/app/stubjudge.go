// Package app assembles the stub judge: repositories, services and router.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"judge_client/internal/api"
	"judge_client/internal/app/service"
	"judge_client/internal/domain/repository"
	"judge_client/internal/platform/fixtures"
)

type StubJudge struct {
	Router http.Handler
	// Judge controls per-language judge health.
	Judge *service.JudgeService
}

// NewStubJudge seeds an in-memory judge from catalog. security.InitJWT must
// have been called.
func NewStubJudge(ctx context.Context, catalog *fixtures.Catalog, logger *slog.Logger) (*StubJudge, error) {
	userRepo := repository.NewMemoryUserRepository()
	problemRepo := repository.NewMemoryProblemRepository()
	submissionRepo := repository.NewMemorySubmissionRepository()

	authService := service.NewAuthService(userRepo, logger)
	problemService := service.NewProblemService(problemRepo, logger)
	if err := problemService.Seed(ctx, catalog); err != nil {
		return nil, err
	}
	judgeService := service.NewJudgeService(catalog.Service, catalog.Version, catalog.Judges, logger)
	submissionService := service.NewSubmissionService(problemRepo, submissionRepo, judgeService, logger)

	return &StubJudge{
		Router: api.NewRouter(authService, problemService, submissionService, judgeService, logger),
		Judge:  judgeService,
	}, nil
}
