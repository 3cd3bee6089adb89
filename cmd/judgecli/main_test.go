package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	stubapp "judge_client/internal/app"
	"judge_client/internal/common/security"
	"judge_client/internal/platform/fixtures"
)

// startJudge serves the stub judge and points the CLI at it with a
// file-backed session in a temp dir.
func startJudge(t *testing.T) *stubapp.StubJudge {
	t.Helper()
	color.NoColor = true
	security.InitJWT([]byte("cli-secret"), time.Hour)

	catalog, err := fixtures.Default()
	require.NoError(t, err)
	judge, err := stubapp.NewStubJudge(context.Background(), catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	server := httptest.NewServer(judge.Router)
	t.Cleanup(server.Close)

	t.Setenv("JUDGE_BASE_URL", server.URL+"/api")
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("LOG_LEVEL", "error")
	return judge
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newCommand(strings.NewReader(stdin), &out).Run(context.Background(), append([]string{"judgecli"}, args...))
	return out.String(), err
}

func TestSessionSurvivesAcrossInvocations(t *testing.T) {
	startJudge(t)

	out, err := run(t, "", "signup", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as ada@example.com")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "ada@example.com")

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out.")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in.")

	out, err = run(t, "secret1\n", "login", "--email", "ada@example.com")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as ada@example.com")
}

func TestLoginWithWrongPassword(t *testing.T) {
	startJudge(t)

	_, err := run(t, "", "signup", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)
	_, err = run(t, "", "login", "--email", "ada@example.com", "--password", "nope-nope")
	require.EqualError(t, err, "Invalid email or password")
}

func TestSubmitAndHistory(t *testing.T) {
	startJudge(t)
	_, err := run(t, "", "signup", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "solution.py")
	require.NoError(t, os.WriteFile(src, []byte("print(sum(map(int, input().split())))\n"), 0o600))

	out, err := run(t, "", "submit", "--file", src, "sum-of-array")
	require.NoError(t, err)
	require.Contains(t, out, "Submitting Python 3 solution for sum-of-array")
	require.Contains(t, out, "✓ Accepted")
	require.Contains(t, out, "Passed 3/3 tests")

	out, err = run(t, "# @verdict WrongAnswer\n# @passed 1\n", "submit", "--lang", "py", "--file", "-", "sum-of-array")
	require.NoError(t, err)
	require.Contains(t, out, "✗ Wrong Answer")
	require.Contains(t, out, "Failed on test 2")

	out, err = run(t, "", "history")
	require.NoError(t, err)
	require.Contains(t, out, "WRONG_ANSWER")
	require.Contains(t, out, "ACCEPTED")
	require.Contains(t, out, "Page 1 of 1 (2 submissions)")

	out, err = run(t, "", "history", "--size", "1", "--all")
	require.NoError(t, err)
	require.Contains(t, out, "Page 1 of 2")
	require.Contains(t, out, "Page 2 of 2")
}

func TestSubmitRejectsBlankCodeLocally(t *testing.T) {
	startJudge(t)

	_, err := run(t, "   \n", "submit", "--lang", "cpp", "--file", "-", "sum-of-array")
	require.ErrorContains(t, err, "please write some code")

	_, err = run(t, "", "submit", "--file", "solution.rb", "sum-of-array")
	require.ErrorContains(t, err, "cannot infer the language")
}

func TestHistoryNeedsLogin(t *testing.T) {
	startJudge(t)

	out, err := run(t, "", "history")
	require.Error(t, err)
	require.Contains(t, out, "Not signed in")
}

func TestCatalogueCommands(t *testing.T) {
	startJudge(t)

	out, err := run(t, "", "problems", "--difficulty", "hard")
	require.NoError(t, err)
	require.Contains(t, out, "shortest-path-in-a-grid")
	require.NotContains(t, out, "two-sum")

	out, err = run(t, "", "problem", "two-sum")
	require.NoError(t, err)
	require.Contains(t, out, "Two Sum")
	require.Contains(t, out, "Example 1")

	_, err = run(t, "", "problem", "missing")
	require.EqualError(t, err, "Problem not found")

	out, err = run(t, "", "overview")
	require.NoError(t, err)
	require.Contains(t, out, "Judge: healthy")
	require.Contains(t, out, "4 problems in 3 categories: 2 easy, 1 medium, 1 hard")
	require.Contains(t, out, "Categories (3)")
}

func TestHealthShowsDownJudges(t *testing.T) {
	judge := startJudge(t)
	judge.Judge.SetJudgeHealth("java", false)

	out, err := run(t, "", "health")
	require.NoError(t, err)
	require.Contains(t, out, "Judge: healthy")
	require.Contains(t, out, "down")
}

func TestLanguagesStarter(t *testing.T) {
	startJudge(t)

	out, err := run(t, "", "languages")
	require.NoError(t, err)
	require.Contains(t, out, "Node.js")

	out, err = run(t, "", "languages", "--starter", "cpp")
	require.NoError(t, err)
	require.Contains(t, out, "#include <iostream>")
}
