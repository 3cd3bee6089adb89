package service

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"sync"
	"time"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
	"judge_client/internal/domain/repository"
)

// Directives let a submission script its own verdict, since the stub judge
// never runs code:
//
//	# @verdict Wrong Answer
//	# @passed 3
//
// Code without an @verdict directive is Accepted.
var (
	verdictDirective = regexp.MustCompile(`(?m)@verdict[ \t]*[:=]?[ \t]*([A-Za-z][A-Za-z _-]*?)[ \t]*$`)
	passedDirective  = regexp.MustCompile(`@passed[ \t]*[:=]?[ \t]*(\d+)`)
)

// ErrJudgeUnavailable marks a submission for a language whose judge is down.
var ErrJudgeUnavailable = fmt.Errorf("judge unavailable: %w", common.ErrInternalServer)

type JudgeService struct {
	service string
	version string
	logger  *slog.Logger

	mu     sync.RWMutex
	judges map[string]bool
	now    func() time.Time
}

func NewJudgeService(service, version string, judges map[string]bool, logger *slog.Logger) *JudgeService {
	health := make(map[string]bool, len(judges))
	for lang, up := range judges {
		health[lang] = up
	}
	return &JudgeService{service: service, version: version, judges: health, logger: logger, now: time.Now}
}

// SetJudgeHealth marks one language's judge up or down.
func (j *JudgeService) SetJudgeHealth(lang model.Language, up bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.judges[string(lang)] = up
}

// Health is healthy while any judge is up.
func (j *JudgeService) Health() model.Health {
	j.mu.RLock()
	defer j.mu.RUnlock()

	judges := make(map[string]bool, len(j.judges))
	anyUp := false
	for lang, up := range j.judges {
		judges[lang] = up
		anyUp = anyUp || up
	}
	status := model.HealthDegraded
	if anyUp {
		status = model.HealthHealthy
	}
	return model.Health{Status: status, Service: j.service, Version: j.version, Judges: judges}
}

func (j *JudgeService) available(lang model.Language) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.judges[string(lang)]
}

// Grade produces a verdict for code against the problem's hidden tests.
func (j *JudgeService) Grade(problem *repository.ProblemRecord, lang model.Language, code string) (*model.SubmissionResult, error) {
	if !j.available(lang) {
		return nil, common.NewStatusError(ErrJudgeUnavailable, fmt.Sprintf("%s judge is unavailable", lang))
	}

	total := len(problem.Tests)
	verdict := model.VerdictAccepted
	if m := verdictDirective.FindStringSubmatch(code); m != nil {
		verdict = model.ParseVerdict(m[1])
	}
	passed := total
	if verdict != model.VerdictAccepted {
		passed = 0
		if m := passedDirective.FindStringSubmatch(code); m != nil {
			passed, _ = strconv.Atoi(m[1])
		}
		// At least one test must fail for a non-Accepted verdict.
		passed = min(passed, max(total-1, 0))
	}

	result := &model.SubmissionResult{
		ProblemID: problem.ID,
		Language:  lang,
		Verdict:   verdict,
		Passed:    &passed,
		Total:     &total,
		Timestamp: j.now().UTC().Format(time.RFC3339),
	}

	switch verdict {
	case model.VerdictAccepted:
	case model.VerdictCompileError:
		result.Error = "Compilation failed"
	case model.VerdictError:
		result.Error = "Judge error while running tests"
	default:
		if passed < total {
			test := problem.Tests[passed]
			failed := &model.FailedTest{TestID: passed + 1, Input: test.Input, Expected: test.Output}
			switch verdict {
			case model.VerdictTimeLimitExceeded:
				failed.Error = fmt.Sprintf("Time limit of %gs exceeded", problem.TimeLimit)
			case model.VerdictRuntimeError:
				failed.Error = "Process exited with a non-zero status"
			default:
				failed.Actual = "<stub output>"
			}
			result.FailedTest = failed
		}
	}

	j.logger.Debug("graded submission", "problem", problem.ID, "language", lang, "verdict", verdict, "passed", passed, "total", total)
	return result, nil
}
