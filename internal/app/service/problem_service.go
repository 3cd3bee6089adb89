package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
	"judge_client/internal/domain/repository"
	"judge_client/internal/platform/fixtures"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
	logger      *slog.Logger
}

func NewProblemService(problemRepo repository.ProblemRepository, logger *slog.Logger) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, logger: logger}
}

// Seed loads every catalogue problem into the repository.
func (s *ProblemService) Seed(ctx context.Context, catalog *fixtures.Catalog) error {
	for _, p := range catalog.Problems {
		record := repository.ProblemRecord{ProblemDetail: p.Detail(), Tests: p.Tests}
		if err := s.problemRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("seeding problem %s: %w", p.ID, err)
		}
	}
	s.logger.Info("catalog loaded", "problems", len(catalog.Problems))
	return nil
}

func (s *ProblemService) ListProblems(ctx context.Context, filter repository.ProblemFilter) ([]model.ProblemSummary, error) {
	if filter.Difficulty != "" {
		switch model.ProblemDifficulty(strings.ToLower(filter.Difficulty)) {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		default:
			return nil, common.NewStatusError(common.ErrBadRequest, "Unknown difficulty: "+filter.Difficulty)
		}
	}
	return s.problemRepo.List(ctx, filter)
}

func (s *ProblemService) GetProblem(ctx context.Context, id string) (*model.ProblemDetail, error) {
	record, err := s.problemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewStatusError(common.ErrNotFound, "Problem not found")
		}
		return nil, err
	}
	return &record.ProblemDetail, nil
}

func (s *ProblemService) Categories(ctx context.Context) ([]string, error) {
	return s.problemRepo.Categories(ctx)
}

func (s *ProblemService) Tags(ctx context.Context) ([]string, error) {
	return s.problemRepo.Tags(ctx)
}

func (s *ProblemService) Stats(ctx context.Context) (*model.Stats, error) {
	problems, err := s.problemRepo.List(ctx, repository.ProblemFilter{})
	if err != nil {
		return nil, err
	}
	categories, err := s.problemRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{Total: len(problems), Categories: len(categories)}
	for _, p := range problems {
		switch p.Difficulty {
		case model.DifficultyEasy:
			stats.Easy++
		case model.DifficultyMedium:
			stats.Medium++
		case model.DifficultyHard:
			stats.Hard++
		}
	}
	return stats, nil
}
