package judgeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

type staticAuth struct{ header string }

func (a staticAuth) CurrentAuthHeader() (string, bool) {
	return a.header, a.header != ""
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, auth AuthSource) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL + "/api", Auth: auth, Logger: quietLogger()})
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func requireKind(t *testing.T, err error, kind error, message string) *common.APIError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	if message != "" {
		require.Equal(t, message, apiErr.Message)
	}
	return apiErr
}

func TestNew(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := New(Config{BaseURL: "http://localhost:8080/api/"})
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8080/api", client.baseURL)
	})

	t.Run("empty URL", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := New(Config{BaseURL: "://invalid"})
		require.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := New(Config{BaseURL: "ftp://judge"})
		require.Error(t, err)
	})
}

func TestListProblemsSendsFilterAndHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/problems", r.URL.Path)
		require.Equal(t, "arrays", r.URL.Query().Get("category"))
		require.Equal(t, "easy", r.URL.Query().Get("difficulty"))
		require.Equal(t, "two sum", r.URL.Query().Get("search"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"), "public reads carry no credential")
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		require.NoError(t, err)

		writeJSON(t, w, http.StatusOK, []model.ProblemSummary{
			{ID: "two-sum", Title: "Two Sum", Category: "arrays", Difficulty: model.DifficultyEasy, TimeLimit: 1, MemoryLimit: 256},
		})
	}, staticAuth{header: "Bearer abc"})

	problems, err := client.ListProblems(context.Background(), ProblemFilter{Category: "arrays", Difficulty: "easy", Search: "two sum"})
	require.NoError(t, err)
	require.Len(t, problems, 1)
	require.Equal(t, "two-sum", problems[0].ID)
}

func TestListProblemsOmitsEmptyFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, []model.ProblemSummary{})
	}, nil)

	problems, err := client.ListProblems(context.Background(), ProblemFilter{})
	require.NoError(t, err)
	require.Empty(t, problems)
}

func TestFallbackMessages(t *testing.T) {
	failing := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	client := newTestClient(t, failing, nil)
	ctx := context.Background()

	_, err := client.ListProblems(ctx, ProblemFilter{})
	requireKind(t, err, common.ErrRequestFailed, "Failed to fetch problems")

	_, err = client.GetProblem(ctx, "two-sum")
	requireKind(t, err, common.ErrRequestFailed, "Failed to fetch problem")

	_, err = client.ListCategories(ctx)
	requireKind(t, err, common.ErrRequestFailed, "Failed to fetch categories")

	_, err = client.GetStats(ctx)
	requireKind(t, err, common.ErrRequestFailed, "Failed to fetch stats")

	_, err = client.MySubmissions(ctx, 0, 20)
	requireKind(t, err, common.ErrRequestFailed, "Failed to fetch submissions")

	_, err = client.GetSubmission(ctx, 7)
	requireKind(t, err, common.ErrRequestFailed, "Failed to fetch submission")
}

func TestServerMessageWinsOverFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadGateway, common.ErrorResponse{Error: "catalog offline"})
	}, nil)

	_, err := client.ListProblems(context.Background(), ProblemFilter{})
	apiErr := requireKind(t, err, common.ErrRequestFailed, "catalog offline")
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestGetProblemNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/problems/no%20such", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	_, err := client.GetProblem(context.Background(), "no such")
	requireKind(t, err, common.ErrNotFound, "Problem not found")
}

func TestGetProblem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, model.ProblemDetail{
			ID:            "two-sum",
			Title:         "Two Sum",
			Constraints:   []string{"1 <= n <= 10^5"},
			Examples:      []model.Example{{Input: "2\n1 2", Output: "3"}},
			TestcaseCount: 12,
		})
	}, nil)

	problem, err := client.GetProblem(context.Background(), "two-sum")
	require.NoError(t, err)
	require.Equal(t, "Two Sum", problem.Title)
	require.Equal(t, 12, problem.TestcaseCount)
	require.Len(t, problem.Examples, 1)
}

func TestListCategoriesDeduplicates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []string{"arrays", "graphs", "arrays"})
	}, nil)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, categories.Cardinality())
	require.True(t, categories.Contains("arrays", "graphs"))
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/auth/login", r.URL.Path)
			var body model.AuthRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "a@b.c", body.Email)
			writeJSON(t, w, http.StatusOK, model.Credential{Token: "tok", Email: "a@b.c", UserID: 42})
		}, nil)

		cred, err := client.Login(context.Background(), model.AuthRequest{Email: "a@b.c", Password: "secret"})
		require.NoError(t, err)
		require.Equal(t, model.Credential{Token: "tok", Email: "a@b.c", UserID: 42}, cred)
	})

	t.Run("rejected with server message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, common.ErrorResponse{Message: "Invalid email or password"})
		}, nil)

		_, err := client.Login(context.Background(), model.AuthRequest{Email: "a@b.c", Password: "wrong"})
		requireKind(t, err, common.ErrAuthFailure, "Invalid email or password")
	})

	t.Run("rejected without body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, nil)

		_, err := client.Login(context.Background(), model.AuthRequest{})
		requireKind(t, err, common.ErrAuthFailure, "Login failed")
	})

	t.Run("incomplete credential", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"email": "a@b.c"})
		}, nil)

		_, err := client.Login(context.Background(), model.AuthRequest{})
		requireKind(t, err, common.ErrAuthFailure, "")
	})
}

func TestSignupFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/signup", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}, nil)

	_, err := client.Signup(context.Background(), model.AuthRequest{Email: "a@b.c", Password: "secret"})
	requireKind(t, err, common.ErrAuthFailure, "Signup failed")
}

func TestSubmit(t *testing.T) {
	t.Run("wrong answer is a result", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var body model.SubmissionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, model.LangPython, body.Language)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"verdict":"Wrong Answer","passed":3,"total":10,"failedTest":{"testId":4,"input":"1","expected":"2","actual":"3"},"timestamp":"2026-01-01T00:00:00Z"}`)
		}, staticAuth{header: "Bearer tok"})

		result, err := client.Submit(context.Background(), model.SubmissionRequest{ProblemID: "two-sum", Language: model.LangPython, Code: "print(1)"})
		require.NoError(t, err)
		require.Equal(t, model.VerdictWrongAnswer, result.Verdict)
		passed, total := result.Counts()
		require.Equal(t, 3, passed)
		require.Equal(t, 10, total)
		require.Equal(t, 4, result.FailedTest.TestID)
		require.Equal(t, "two-sum", result.ProblemID)
		require.Equal(t, model.LangPython, result.Language)
	})

	t.Run("anonymous submit sends no header", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Empty(t, r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, map[string]any{"verdict": "Accepted", "passed": 1, "total": 1})
		}, staticAuth{})

		result, err := client.Submit(context.Background(), model.SubmissionRequest{ProblemID: "p", Language: model.LangCpp, Code: "x"})
		require.NoError(t, err)
		require.Equal(t, model.VerdictAccepted, result.Verdict)
		require.NotEmpty(t, result.Timestamp)
	})

	t.Run("server error body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, common.ErrorResponse{Error: "Unsupported language"})
		}, nil)

		_, err := client.Submit(context.Background(), model.SubmissionRequest{})
		requireKind(t, err, common.ErrRequestFailed, "Unsupported language")
	})

	t.Run("fallback message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, nil)

		_, err := client.Submit(context.Background(), model.SubmissionRequest{})
		requireKind(t, err, common.ErrRequestFailed, "Submission failed")
	})

	t.Run("passed above total is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, map[string]any{"verdict": "Accepted", "passed": 5, "total": 3})
		}, nil)

		_, err := client.Submit(context.Background(), model.SubmissionRequest{})
		requireKind(t, err, common.ErrRequestFailed, "")
	})

	t.Run("undecodable body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		}, nil)

		_, err := client.Submit(context.Background(), model.SubmissionRequest{})
		requireKind(t, err, common.ErrRequestFailed, "Submission failed: invalid response")
	})
}

func TestSubmitTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := New(Config{BaseURL: baseURL, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = client.Submit(context.Background(), model.SubmissionRequest{ProblemID: "p", Language: model.LangPython, Code: "x"})
	apiErr := requireKind(t, err, common.ErrTransport, "")
	require.Zero(t, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "Submission failed")
}

func TestCancelledContextIsTransportFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []string{})
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListCategories(ctx)
	require.ErrorIs(t, err, common.ErrTransport)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMySubmissions(t *testing.T) {
	t.Run("page", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/submissions/me", r.URL.Path)
			require.Equal(t, "1", r.URL.Query().Get("page"))
			require.Equal(t, "2", r.URL.Query().Get("size"))
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, model.Page[model.SubmissionHistoryItem]{
				Items:       []model.SubmissionHistoryItem{{ID: 3, Status: model.StatusAccepted}},
				PageIndex:   1,
				PageSize:    2,
				TotalItems:  3,
				TotalPages:  2,
				HasPrevious: true,
			})
		}, staticAuth{header: "Bearer tok"})

		page, err := client.MySubmissions(context.Background(), 1, 2)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.False(t, page.HasNext)
		require.True(t, page.HasPrevious)
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, nil)

		_, err := client.MySubmissions(context.Background(), 0, 20)
		requireKind(t, err, common.ErrAuthorizationRequired, "Failed to fetch submissions")
	})

	t.Run("inconsistent page is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, model.Page[model.SubmissionHistoryItem]{
				Items:      []model.SubmissionHistoryItem{{ID: 1}, {ID: 2}, {ID: 3}},
				PageSize:   2,
				TotalPages: 1,
			})
		}, nil)

		_, err := client.MySubmissions(context.Background(), 0, 2)
		requireKind(t, err, common.ErrRequestFailed, "")
	})
}

func TestGetSubmissionNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/submissions/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	_, err := client.GetSubmission(context.Background(), 99)
	requireKind(t, err, common.ErrNotFound, "Failed to fetch submission")
}

func TestAuthorizationFailureEvictsCredential(t *testing.T) {
	var evicted atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	newClient := func(auth AuthSource) *Client {
		client, err := New(Config{
			BaseURL:                server.URL,
			Auth:                   auth,
			Logger:                 quietLogger(),
			OnAuthorizationFailure: func(context.Context) { evicted.Add(1) },
		})
		require.NoError(t, err)
		return client
	}

	_, err := newClient(staticAuth{}).MySubmissions(context.Background(), 0, 20)
	require.ErrorIs(t, err, common.ErrAuthorizationRequired)
	require.Zero(t, evicted.Load(), "nothing to evict without a credential")

	_, err = newClient(staticAuth{header: "Bearer stale"}).MySubmissions(context.Background(), 0, 20)
	require.ErrorIs(t, err, common.ErrAuthorizationRequired)
	require.EqualValues(t, 1, evicted.Load())
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, model.Health{Status: "healthy", Service: "judge", Judges: map[string]bool{"python": true}})
		}, nil)

		health, err := client.Health(context.Background())
		require.NoError(t, err)
		require.True(t, health.Healthy())
		require.True(t, health.Judges["python"])
	})

	t.Run("degraded answers 503 with a body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusServiceUnavailable, model.Health{Status: "degraded", Judges: map[string]bool{"python": true, "cpp": false}})
		}, nil)

		health, err := client.Health(context.Background())
		require.NoError(t, err)
		require.Equal(t, model.HealthDegraded, health.Status)
		require.False(t, health.Judges["cpp"])
	})

	t.Run("non-JSON body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "bad gateway")
		}, nil)

		health, err := client.Health(context.Background())
		require.NoError(t, err)
		require.Equal(t, model.HealthUnknown, health.Status)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()
		client, err := New(Config{BaseURL: baseURL, Logger: quietLogger()})
		require.NoError(t, err)

		_, err = client.Health(context.Background())
		require.True(t, errors.Is(err, common.ErrTransport))
	})
}
