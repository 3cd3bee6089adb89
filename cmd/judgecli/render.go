package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"judge_client/internal/domain/model"
)

var (
	successColor = color.New(color.FgHiGreen, color.Bold)
	warningColor = color.New(color.FgHiYellow, color.Bold)
	failureColor = color.New(color.FgHiRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

var statusColors = map[string]*color.Color{
	model.StatusAccepted:    color.New(color.FgHiGreen),
	model.StatusWrongAnswer: color.New(color.FgHiRed),
	model.StatusTLE:         color.New(color.FgHiYellow),
	model.StatusRE:          color.New(color.FgRed),
	model.StatusCE:          color.New(color.FgHiMagenta),
	model.StatusQueued:      color.New(color.FgHiBlue),
	model.StatusRunning:     color.New(color.FgBlue),
}

var difficultyColors = map[model.ProblemDifficulty]*color.Color{
	model.DifficultyEasy:   color.New(color.FgHiGreen),
	model.DifficultyMedium: color.New(color.FgHiYellow),
	model.DifficultyHard:   color.New(color.FgHiRed),
}

func paintStatus(status string) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return dimColor.Sprint(status)
}

func paintDifficulty(d model.ProblemDifficulty) string {
	if c, ok := difficultyColors[d]; ok {
		return c.Sprint(string(d))
	}
	return string(d)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderProblems(w io.Writer, problems []model.ProblemSummary) {
	if len(problems) == 0 {
		fmt.Fprintln(w, "No problems match.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Title", "Category", "Difficulty", "Time", "Memory"})
	for _, p := range problems {
		t.AppendRow(table.Row{p.ID, p.Title, p.Category, paintDifficulty(p.Difficulty),
			fmt.Sprintf("%gs", p.TimeLimit), fmt.Sprintf("%d MB", p.MemoryLimit)})
	}
	t.Render()
}

func renderProblem(w io.Writer, p *model.ProblemDetail) {
	fmt.Fprintf(w, "%s  [%s]  %s\n", color.New(color.Bold).Sprint(p.Title), paintDifficulty(p.Difficulty), p.Category)
	fmt.Fprintf(w, "Time limit: %gs   Memory limit: %d MB   Tests: %d\n", p.TimeLimit, p.MemoryLimit, p.TestcaseCount)
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(p.Tags, ", "))
	}

	section := func(title, body string) {
		if body == "" {
			return
		}
		fmt.Fprintf(w, "\n%s\n%s\n", color.New(color.Bold).Sprint(title), body)
	}
	section("Statement", p.Statement)
	section("Input", p.InputFormat)
	section("Output", p.OutputFormat)
	if len(p.Constraints) > 0 {
		section("Constraints", "  - "+strings.Join(p.Constraints, "\n  - "))
	}
	for i, ex := range p.Examples {
		body := "Input:\n" + indent(ex.Input) + "\nOutput:\n" + indent(ex.Output)
		if ex.Explanation != "" {
			body += "\nExplanation: " + ex.Explanation
		}
		section(fmt.Sprintf("Example %d", i+1), body)
	}
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}

// renderResult prints a submission result. The colour comes only from
// model.Classify.
func renderResult(w io.Writer, r model.SubmissionResult) {
	label := r.Verdict.Label()
	switch model.Classify(r) {
	case model.ClassSuccess:
		fmt.Fprintln(w, successColor.Sprint("✓ "+label))
	case model.ClassWarning:
		fmt.Fprintln(w, warningColor.Sprint("⚠ "+label))
	default:
		fmt.Fprintln(w, failureColor.Sprint("✗ "+label))
	}

	if r.Judged() {
		passed, total := r.Counts()
		fmt.Fprintf(w, "Passed %d/%d tests\n", passed, total)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", r.Error)
	}
	if ft := r.FailedTest; ft != nil {
		fmt.Fprintf(w, "\nFailed on test %d\n", ft.TestID)
		fmt.Fprintf(w, "Input:\n%s\n", indent(ft.Input))
		fmt.Fprintf(w, "Expected:\n%s\n", indent(ft.Expected))
		if ft.Actual != "" {
			fmt.Fprintf(w, "Actual:\n%s\n", indent(ft.Actual))
		}
		if ft.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", ft.Error)
		}
	}
	if r.SubmissionID != 0 {
		fmt.Fprintln(w, dimColor.Sprintf("Submission #%d", r.SubmissionID))
	}
}

func renderHistory(w io.Writer, page *model.Page[model.SubmissionHistoryItem]) {
	if page.TotalItems == 0 {
		fmt.Fprintln(w, "No submissions yet.")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Problem", "Language", "Status", "Tests", "Submitted"})
	for _, item := range page.Items {
		title := item.ProblemTitle
		if title == "" {
			title = item.ProblemID
		}
		t.AppendRow(table.Row{item.ID, title, languageName(item.Language), paintStatus(item.Status),
			fmt.Sprintf("%d/%d", item.PassedTests, item.TotalTests), item.SubmittedAt})
	}
	t.Render()
	fmt.Fprintf(w, "Page %d of %d (%d submissions)\n", page.PageIndex+1, max(page.TotalPages, 1), page.TotalItems)
}

func renderSubmission(w io.Writer, item *model.SubmissionHistoryItem) {
	fmt.Fprintf(w, "Submission #%d\n", item.ID)
	fmt.Fprintf(w, "Problem:   %s (%s)\n", item.ProblemTitle, item.ProblemID)
	fmt.Fprintf(w, "Language:  %s\n", languageName(item.Language))
	fmt.Fprintf(w, "Status:    %s\n", paintStatus(item.Status))
	if item.Verdict != "" {
		fmt.Fprintf(w, "Verdict:   %s\n", item.Verdict.Label())
	}
	fmt.Fprintf(w, "Tests:     %d/%d\n", item.PassedTests, item.TotalTests)
	fmt.Fprintf(w, "Submitted: %s\n", item.SubmittedAt)
}

func languageName(l model.Language) string {
	if info, ok := l.Info(); ok {
		return info.Name
	}
	return string(l)
}

func renderHealth(w io.Writer, h *model.Health) {
	status := h.Status
	switch {
	case h.Healthy():
		status = successColor.Sprint(status)
	case h.Status == model.HealthDegraded:
		status = failureColor.Sprint(status)
	default:
		status = warningColor.Sprint(status)
	}
	fmt.Fprintf(w, "Judge: %s", status)
	if h.Service != "" {
		fmt.Fprintf(w, "  (%s %s)", h.Service, h.Version)
	}
	fmt.Fprintln(w)

	judges := h.Judges
	if len(judges) == 0 && h.Judge != nil {
		judges = map[string]bool{"judge": *h.Judge}
	}
	if len(judges) == 0 {
		return
	}
	names := make([]string, 0, len(judges))
	for name := range judges {
		names = append(names, name)
	}
	sort.Strings(names)

	t := newTable(w)
	t.AppendHeader(table.Row{"Language", "Judge"})
	for _, name := range names {
		state := successColor.Sprint("up")
		if !judges[name] {
			state = failureColor.Sprint("down")
		}
		t.AppendRow(table.Row{name, state})
	}
	t.Render()
}

func renderStats(w io.Writer, s *model.Stats) {
	fmt.Fprintf(w, "%d problems in %d categories: %s, %s, %s\n", s.Total, s.Categories,
		difficultyColors[model.DifficultyEasy].Sprintf("%d easy", s.Easy),
		difficultyColors[model.DifficultyMedium].Sprintf("%d medium", s.Medium),
		difficultyColors[model.DifficultyHard].Sprintf("%d hard", s.Hard))
}

func renderList(w io.Writer, title string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(w, "No %s.\n", strings.ToLower(title))
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", title, len(values))
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

func renderLanguages(w io.Writer) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Extension"})
	for _, l := range model.Languages {
		t.AppendRow(table.Row{l.ID, l.Name, "." + l.Extension})
	}
	t.Render()
}
