// Package submission drives one problem's submit flow: it gates concurrent
// submits, calls the judge, and keeps exactly one outcome per settled
// submission.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

var (
	// ErrValidation is returned for empty or whitespace-only code. It wraps
	// common.ErrValidation.
	ErrValidation = fmt.Errorf("please write some code before submitting: %w", common.ErrValidation)
	// ErrSubmissionInFlight rejects a submit or edit while one is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// Submitter is the judge call the controller depends on.
// *judgeapi.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req model.SubmissionRequest) (*model.SubmissionResult, error)
}

type State int

const (
	Idle State = iota
	Submitting
	Settled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Settled:
		return "settled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether s ends a submission.
func (s State) Terminal() bool {
	return s == Settled || s == Failed
}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	// OutcomeSettled: the judge answered; Result holds its verdict.
	OutcomeSettled
	// OutcomeFailed: no verdict was obtained; Cause says why.
	OutcomeFailed
	// OutcomeRejected: the code was rejected before any request.
	OutcomeRejected
)

// Outcome is the tagged result of one submit.
type Outcome struct {
	Kind      OutcomeKind
	Result    *model.SubmissionResult
	Cause     error
	ProblemID string
	Language  model.Language
	At        time.Time
}

// Display returns the result renderers show. Failures and rejections are
// folded into an Error verdict carrying the message, so they classify the
// same way as a judge-reported error.
func (o Outcome) Display() model.SubmissionResult {
	switch o.Kind {
	case OutcomeSettled:
		if o.Result != nil {
			return *o.Result
		}
	case OutcomeRejected:
		zero := 0
		return model.SubmissionResult{
			ProblemID: o.ProblemID,
			Language:  o.Language,
			Verdict:   model.VerdictError,
			Passed:    &zero,
			Total:     &zero,
			Error:     messageOf(o.Cause),
			Timestamp: o.At.UTC().Format(time.RFC3339),
		}
	case OutcomeFailed:
		return model.SubmissionResult{
			ProblemID: o.ProblemID,
			Language:  o.Language,
			Verdict:   model.VerdictError,
			Error:     messageOf(o.Cause),
			Timestamp: o.At.UTC().Format(time.RFC3339),
		}
	}
	return model.SubmissionResult{}
}

// Classification is model.Classify over Display.
func (o Outcome) Classification() model.Classification {
	return model.Classify(o.Display())
}

// TransportFailure reports whether the judge could not be reached.
func (o Outcome) TransportFailure() bool {
	return o.Kind == OutcomeFailed && errors.Is(o.Cause, common.ErrTransport)
}

func messageOf(err error) string {
	if err == nil {
		return "Submission failed"
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// machine is the controller's state. Transitions below are pure.
type machine struct {
	state    State
	language model.Language
	outcome  *Outcome
}

func begin(m machine) machine {
	return machine{state: Submitting, language: m.language}
}

func onSuccess(m machine, o Outcome) machine {
	if m.state != Submitting {
		return m
	}
	return machine{state: Settled, language: m.language, outcome: &o}
}

func onFailure(m machine, o Outcome) machine {
	if m.state != Submitting {
		return m
	}
	return machine{state: Failed, language: m.language, outcome: &o}
}

func reset(lang model.Language) machine {
	return machine{state: Idle, language: lang}
}

type Controller struct {
	problemID string
	submitter Submitter
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex
	m  machine
}

// NewController starts Idle with the first catalogue language selected.
func NewController(problemID string, submitter Submitter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		problemID: problemID,
		submitter: submitter,
		logger:    logger.With("problem", problemID),
		now:       time.Now,
		m:         machine{state: Idle, language: model.Languages[0].ID},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.state
}

// Outcome returns the outcome of the last finished submission, if the
// controller is in a terminal state.
func (c *Controller) Outcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m.outcome == nil {
		return Outcome{}, false
	}
	return *c.m.outcome, true
}

func (c *Controller) Language() model.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.language
}

// ChangeLanguage selects lang and returns to Idle, dropping any outcome.
func (c *Controller) ChangeLanguage(lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q: %w", lang, common.ErrValidation)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m.state == Submitting {
		return ErrSubmissionInFlight
	}
	c.m = reset(lang)
	return nil
}

// EditCode records that the code changed: a shown outcome no longer
// describes it.
func (c *Controller) EditCode() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m.state == Submitting {
		return ErrSubmissionInFlight
	}
	c.m = reset(c.m.language)
	return nil
}

// Submit judges code in lang. Validation and the in-flight gate are checked
// synchronously; neither sends a request or changes state. Otherwise the
// call blocks until the judge answers or ctx ends, and returns the new
// outcome with a nil error: failures to obtain a verdict are reported in
// the outcome, not as an error.
func (c *Controller) Submit(ctx context.Context, code string, lang model.Language) (Outcome, error) {
	c.mu.Lock()
	if c.m.state == Submitting {
		c.mu.Unlock()
		return Outcome{}, ErrSubmissionInFlight
	}
	if strings.TrimSpace(code) == "" {
		c.mu.Unlock()
		return Outcome{Kind: OutcomeRejected, Cause: ErrValidation, ProblemID: c.problemID, Language: lang, At: c.now()}, ErrValidation
	}
	if !lang.Valid() {
		c.mu.Unlock()
		err := fmt.Errorf("unsupported language %q: %w", lang, common.ErrValidation)
		return Outcome{Kind: OutcomeRejected, Cause: err, ProblemID: c.problemID, Language: lang, At: c.now()}, err
	}
	c.m.language = lang
	c.m = begin(c.m)
	c.mu.Unlock()

	c.logger.Info("submitting", "language", lang, "bytes", len(code))
	result, err := c.submitter.Submit(ctx, model.SubmissionRequest{
		ProblemID: c.problemID,
		Language:  lang,
		Code:      code,
	})

	outcome := Outcome{ProblemID: c.problemID, Language: lang, At: c.now()}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		outcome.Kind = OutcomeFailed
		outcome.Cause = err
		c.m = onFailure(c.m, outcome)
		c.logger.Warn("submission failed", "language", lang, "error", err)
		return outcome, nil
	}

	outcome.Kind = OutcomeSettled
	outcome.Result = result
	c.m = onSuccess(c.m, outcome)
	passed, total := result.Counts()
	c.logger.Info("submission settled", "language", lang, "verdict", result.Verdict, "passed", passed, "total", total)
	return outcome, nil
}
