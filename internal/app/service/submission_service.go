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
)

const (
	maxCodeLength   = 65536
	defaultPageSize = 20
	maxPageSize     = 100
)

type SubmissionService struct {
	problemRepo    repository.ProblemRepository
	submissionRepo repository.SubmissionRepository
	judge          *JudgeService
	logger         *slog.Logger
}

func NewSubmissionService(
	problemRepo repository.ProblemRepository,
	submissionRepo repository.SubmissionRepository,
	judge *JudgeService,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		problemRepo:    problemRepo,
		submissionRepo: submissionRepo,
		judge:          judge,
		logger:         logger,
	}
}

// Submit grades code. userID is zero for anonymous submissions, which are
// judged but not recorded in any history.
func (s *SubmissionService) Submit(ctx context.Context, userID int64, req model.SubmissionRequest) (*model.SubmissionResult, error) {
	lang, err := model.ParseLanguage(string(req.Language))
	if err != nil {
		return nil, common.NewStatusError(common.ErrBadRequest, "language: Language must be one of: python, cpp, java, js")
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, common.NewStatusError(common.ErrBadRequest, "code: Code cannot be empty")
	}
	if len(req.Code) > maxCodeLength {
		return nil, common.NewStatusError(common.ErrBadRequest, fmt.Sprintf("code: Code exceeds maximum length of %d characters", maxCodeLength))
	}
	if req.ProblemID == "" {
		return nil, common.NewStatusError(common.ErrBadRequest, "problemId: Problem cannot be empty")
	}

	problem, err := s.problemRepo.FindByID(ctx, req.ProblemID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewStatusError(common.ErrNotFound, "Problem not found")
		}
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}

	result, err := s.judge.Grade(problem, lang, req.Code)
	if err != nil {
		s.logger.Warn("judge rejected submission", "problem", problem.ID, "language", lang, "error", err)
		return nil, err
	}

	if userID != 0 {
		passed, total := result.Counts()
		item := &model.SubmissionHistoryItem{
			ProblemID:    problem.ID,
			ProblemTitle: problem.Title,
			Language:     lang,
			Status:       model.StatusForVerdict(result.Verdict),
			Verdict:      result.Verdict,
			PassedTests:  passed,
			TotalTests:   total,
			SubmittedAt:  result.Timestamp,
			UserID:       userID,
		}
		if err := s.submissionRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to record submission: %w", err)
		}
		result.SubmissionID = item.ID
	}

	s.logger.Info("submission judged", "problem", problem.ID, "language", lang,
		"verdict", result.Verdict, "user_id", userID, "submission_id", result.SubmissionID)
	return result, nil
}

// MySubmissions pages through one user's history, optionally for a single
// problem. Out-of-range sizes fall back to the defaults.
func (s *SubmissionService) MySubmissions(ctx context.Context, userID int64, problemID string, page, size int) (*model.Page[model.SubmissionHistoryItem], error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	result, err := s.submissionRepo.ListByUser(ctx, userID, problemID, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return &result, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, userID, id int64) (*model.SubmissionHistoryItem, error) {
	item, err := s.submissionRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewStatusError(common.ErrNotFound, "Submission not found")
		}
		return nil, err
	}
	return item, nil
}
