package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Verdict string

const (
	VerdictAccepted          Verdict = "Accepted"
	VerdictWrongAnswer       Verdict = "WrongAnswer"
	VerdictTimeLimitExceeded Verdict = "TimeLimitExceeded"
	VerdictRuntimeError      Verdict = "RuntimeError"
	VerdictCompileError      Verdict = "CompileError"
	VerdictError             Verdict = "Error"
)

// verdictAliases maps the spellings judges use (lower-cased, separators
// removed) to canonical verdicts.
var verdictAliases = map[string]Verdict{
	"accepted":          VerdictAccepted,
	"ac":                VerdictAccepted,
	"wronganswer":       VerdictWrongAnswer,
	"wa":                VerdictWrongAnswer,
	"timelimitexceeded": VerdictTimeLimitExceeded,
	"tle":               VerdictTimeLimitExceeded,
	"runtimeerror":      VerdictRuntimeError,
	"re":                VerdictRuntimeError,
	"compileerror":      VerdictCompileError,
	"compilationerror":  VerdictCompileError,
	"ce":                VerdictCompileError,
	"error":             VerdictError,
	"systemerror":       VerdictError,
	"internalerror":     VerdictError,
}

// ParseVerdict normalises a judge-supplied verdict. Unknown strings are
// returned unchanged.
func ParseVerdict(s string) Verdict {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	if v, ok := verdictAliases[key]; ok {
		return v
	}
	return Verdict(s)
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = ParseVerdict(s)
	return nil
}

// Label is the human form shown next to a result, e.g. "Wrong Answer".
func (v Verdict) Label() string {
	switch v {
	case VerdictWrongAnswer:
		return "Wrong Answer"
	case VerdictTimeLimitExceeded:
		return "Time Limit Exceeded"
	case VerdictRuntimeError:
		return "Runtime Error"
	case VerdictCompileError:
		return "Compile Error"
	}
	return string(v)
}

type SubmissionRequest struct {
	ProblemID string   `json:"problemId"`
	Language  Language `json:"language"`
	Code      string   `json:"code"`
}

type FailedTest struct {
	TestID   int    `json:"testId"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Error    string `json:"error,omitempty"`
}

// SubmissionResult is the judge's answer to one submit. Passed and Total are
// nil when judging never happened (client-side or transport failure).
type SubmissionResult struct {
	SubmissionID int64       `json:"submissionId"`
	ProblemID    string      `json:"problemId"`
	Language     Language    `json:"language"`
	Verdict      Verdict     `json:"verdict"`
	Passed       *int        `json:"passed,omitempty"`
	Total        *int        `json:"total,omitempty"`
	FailedTest   *FailedTest `json:"failedTest,omitempty"`
	Error        string      `json:"error,omitempty"`
	Timestamp    string      `json:"timestamp"`
}

// Counts returns passed/total with absent values read as zero.
func (r SubmissionResult) Counts() (passed, total int) {
	if r.Passed != nil {
		passed = *r.Passed
	}
	if r.Total != nil {
		total = *r.Total
	}
	return passed, total
}

// Judged reports whether the result carries test counts.
func (r SubmissionResult) Judged() bool {
	return r.Passed != nil && r.Total != nil
}

func (r SubmissionResult) Validate() error {
	passed, total := r.Counts()
	if passed < 0 || total < 0 {
		return fmt.Errorf("negative test counts %d/%d", passed, total)
	}
	if passed > total {
		return fmt.Errorf("passed %d exceeds total %d", passed, total)
	}
	return nil
}

type Classification int

const (
	ClassSuccess Classification = iota
	ClassWarning
	ClassFailure
)

func (c Classification) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassWarning:
		return "warning"
	default:
		return "failure"
	}
}

// Classify derives the display class of a result. Every renderer must go
// through this so judge-reported errors and transport failures look alike.
func Classify(r SubmissionResult) Classification {
	if r.Verdict == VerdictAccepted {
		return ClassSuccess
	}
	if r.Verdict == VerdictError || r.Error != "" {
		return ClassWarning
	}
	return ClassFailure
}

// Submission statuses used by the history listing.
const (
	StatusAccepted    = "ACCEPTED"
	StatusWrongAnswer = "WRONG_ANSWER"
	StatusTLE         = "TLE"
	StatusRE          = "RE"
	StatusCE          = "CE"
	StatusError       = "ERROR"
	StatusQueued      = "QUEUED"
	StatusRunning     = "RUNNING"
)

// StatusForVerdict is the history status recorded for a verdict.
func StatusForVerdict(v Verdict) string {
	switch v {
	case VerdictAccepted:
		return StatusAccepted
	case VerdictWrongAnswer:
		return StatusWrongAnswer
	case VerdictTimeLimitExceeded:
		return StatusTLE
	case VerdictRuntimeError:
		return StatusRE
	case VerdictCompileError:
		return StatusCE
	}
	return StatusError
}

// SubmissionHistoryItem is the summary of a past submission.
type SubmissionHistoryItem struct {
	ID           int64    `json:"id"`
	ProblemID    string   `json:"problemId"`
	ProblemTitle string   `json:"problemTitle"`
	Language     Language `json:"language"`
	Status       string   `json:"status"`
	Verdict      Verdict  `json:"verdict,omitempty"`
	PassedTests  int      `json:"passedTests"`
	TotalTests   int      `json:"totalTests"`
	SubmittedAt  string   `json:"submittedAt"`
	UserID       int64    `json:"-"`
}
