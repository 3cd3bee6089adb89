package judgeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

// ProblemFilter narrows the problem list. Empty fields are not sent.
type ProblemFilter struct {
	Category   string
	Difficulty string
	Search     string
}

func (f ProblemFilter) values() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Difficulty != "" {
		q.Set("difficulty", f.Difficulty)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

func (c *Client) ListProblems(ctx context.Context, filter ProblemFilter) ([]model.ProblemSummary, error) {
	var problems []model.ProblemSummary
	err := c.do(ctx, call{
		op:       "list problems",
		method:   http.MethodGet,
		path:     "/problems",
		query:    filter.values(),
		fallback: "Failed to fetch problems",
		kind:     plainKinds,
	}, &problems)
	if err != nil {
		return nil, err
	}
	return problems, nil
}

func (c *Client) GetProblem(ctx context.Context, id string) (*model.ProblemDetail, error) {
	cl := call{
		op:       "get problem",
		method:   http.MethodGet,
		path:     "/problems/" + url.PathEscape(id),
		fallback: "Failed to fetch problem",
		kind: func(status int) error {
			if status == http.StatusNotFound {
				return common.ErrNotFound
			}
			return common.ErrRequestFailed
		},
	}
	var problem model.ProblemDetail
	if err := c.do(ctx, cl, &problem); err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			apiErr.Message = "Problem not found"
		}
		return nil, err
	}
	return &problem, nil
}

// ListCategories returns the distinct category names.
func (c *Client) ListCategories(ctx context.Context) (mapset.Set[string], error) {
	var categories []string
	err := c.do(ctx, call{
		op:       "list categories",
		method:   http.MethodGet,
		path:     "/categories",
		fallback: "Failed to fetch categories",
		kind:     plainKinds,
	}, &categories)
	if err != nil {
		return nil, err
	}
	return mapset.NewSet(categories...), nil
}

func (c *Client) ListTags(ctx context.Context) (mapset.Set[string], error) {
	var tags []string
	err := c.do(ctx, call{
		op:       "list tags",
		method:   http.MethodGet,
		path:     "/tags",
		fallback: "Failed to fetch tags",
		kind:     plainKinds,
	}, &tags)
	if err != nil {
		return nil, err
	}
	return mapset.NewSet(tags...), nil
}

func (c *Client) GetStats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	err := c.do(ctx, call{
		op:       "get stats",
		method:   http.MethodGet,
		path:     "/stats",
		fallback: "Failed to fetch stats",
		kind:     plainKinds,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Signup(ctx context.Context, req model.AuthRequest) (model.Credential, error) {
	return c.authenticate(ctx, "signup", "/auth/signup", "Signup failed", req)
}

func (c *Client) Login(ctx context.Context, req model.AuthRequest) (model.Credential, error) {
	return c.authenticate(ctx, "login", "/auth/login", "Login failed", req)
}

func (c *Client) authenticate(ctx context.Context, op, path, fallback string, req model.AuthRequest) (model.Credential, error) {
	cl := call{
		op:       op,
		method:   http.MethodPost,
		path:     path,
		body:     req,
		fallback: fallback,
		kind:     authKinds,
	}
	var cred model.Credential
	if err := c.do(ctx, cl, &cred); err != nil {
		return model.Credential{}, err
	}
	if !cred.Valid() {
		return model.Credential{}, c.failure(cl, http.StatusOK, common.ErrAuthFailure, fallback+": incomplete credential", nil)
	}
	return cred, nil
}

// Submit sends code for judging. A 2xx response carrying a non-Accepted
// verdict is a normal result, not an error.
func (c *Client) Submit(ctx context.Context, req model.SubmissionRequest) (*model.SubmissionResult, error) {
	cl := call{
		op:       "submit",
		method:   http.MethodPost,
		path:     "/submit",
		body:     req,
		authed:   true,
		fallback: "Submission failed",
		kind:     scopedKinds,
	}
	var result model.SubmissionResult
	if err := c.do(ctx, cl, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, c.failure(cl, http.StatusOK, common.ErrRequestFailed, "Submission failed: invalid response", err)
	}
	if result.ProblemID == "" {
		result.ProblemID = req.ProblemID
	}
	if result.Language == "" {
		result.Language = req.Language
	}
	if result.Timestamp == "" {
		result.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return &result, nil
}

// MySubmissions fetches one page of the current user's history.
func (c *Client) MySubmissions(ctx context.Context, page, size int) (*model.Page[model.SubmissionHistoryItem], error) {
	return c.history(ctx, "/submissions/me", page, size)
}

// MySubmissionsForProblem is MySubmissions narrowed to one problem.
func (c *Client) MySubmissionsForProblem(ctx context.Context, problemID string, page, size int) (*model.Page[model.SubmissionHistoryItem], error) {
	return c.history(ctx, "/submissions/me/problem/"+url.PathEscape(problemID), page, size)
}

func (c *Client) history(ctx context.Context, path string, page, size int) (*model.Page[model.SubmissionHistoryItem], error) {
	cl := call{
		op:     "my submissions",
		method: http.MethodGet,
		path:   path,
		query: url.Values{
			"page": {strconv.Itoa(page)},
			"size": {strconv.Itoa(size)},
		},
		authed:   true,
		fallback: "Failed to fetch submissions",
		kind:     scopedKinds,
	}
	var result model.Page[model.SubmissionHistoryItem]
	if err := c.do(ctx, cl, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, c.failure(cl, http.StatusOK, common.ErrRequestFailed, "Failed to fetch submissions: invalid page", err)
	}
	return &result, nil
}

func (c *Client) GetSubmission(ctx context.Context, id int64) (*model.SubmissionHistoryItem, error) {
	var item model.SubmissionHistoryItem
	err := c.do(ctx, call{
		op:       "get submission",
		method:   http.MethodGet,
		path:     "/submissions/" + strconv.FormatInt(id, 10),
		authed:   true,
		fallback: "Failed to fetch submission",
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Health reports the judge's status. A degraded judge answers 503 with a
// body, so the body is decoded whatever the status; only a transport
// failure is an error.
func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	ex, err := c.send(ctx, call{
		op:       "health",
		method:   http.MethodGet,
		path:     "/health",
		fallback: "Health check failed",
	})
	if err != nil {
		return nil, err
	}

	var health model.Health
	if err := json.Unmarshal(ex.body, &health); err != nil || health.Status == "" {
		health = model.Health{Status: model.HealthUnknown}
	}
	if !health.Healthy() {
		c.logger.Warn("judge is not healthy", "status", health.Status, "http_status", ex.status)
	}
	return &health, nil
}
