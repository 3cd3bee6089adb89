package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &model.User{Email: "Ada@Example.com", HashedPassword: "h"}
	require.NoError(t, repo.Create(ctx, user))
	require.EqualValues(t, 1, user.ID)

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada@Example.com", byID.Email)

	err = repo.Create(ctx, &model.User{Email: "ADA@example.com"})
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = repo.FindByID(ctx, 99)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserRepositoryConcurrentSignup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &model.User{Email: "race@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else {
			require.ErrorIs(t, err, common.ErrConflict)
		}
	}
	require.Equal(t, 1, created)
}

func seedProblems(t *testing.T, repo ProblemRepository) {
	t.Helper()
	for _, p := range []model.ProblemDetail{
		{ID: "sum", Title: "Sum of Array", Category: "Arrays", Difficulty: model.DifficultyEasy, Tags: []string{"math"}},
		{ID: "lis", Title: "Longest Increasing Subsequence", Category: "Dynamic Programming", Difficulty: model.DifficultyMedium, Tags: []string{"dp", "math"}},
		{ID: "two", Title: "Two Sum", Category: "Arrays", Difficulty: model.DifficultyEasy, Tags: []string{"hashing"}},
	} {
		require.NoError(t, repo.Upsert(context.Background(), ProblemRecord{ProblemDetail: p}))
	}
}

func TestProblemRepositoryListAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProblemRepository()
	seedProblems(t, repo)

	all, err := repo.List(ctx, ProblemFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"sum", "lis", "two"}, ids(all))

	arrays, err := repo.List(ctx, ProblemFilter{Category: "arrays", Difficulty: "EASY"})
	require.NoError(t, err)
	require.Equal(t, []string{"sum", "two"}, ids(arrays))

	search, err := repo.List(ctx, ProblemFilter{Search: "sum"})
	require.NoError(t, err)
	require.Equal(t, []string{"sum", "two"}, ids(search))

	none, err := repo.List(ctx, ProblemFilter{Difficulty: "hard"})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Arrays", "Dynamic Programming"}, categories)

	tags, err := repo.Tags(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"math", "dp", "hashing"}, tags)
}

func TestProblemRepositoryUpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProblemRepository()
	seedProblems(t, repo)

	require.NoError(t, repo.Upsert(ctx, ProblemRecord{ProblemDetail: model.ProblemDetail{ID: "sum", Title: "Array Sum", Category: "Arrays", Difficulty: model.DifficultyEasy}}))
	all, err := repo.List(ctx, ProblemFilter{})
	require.NoError(t, err)
	require.Equal(t, "Array Sum", all[0].Title)

	_, err = repo.FindByID(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, repo.Upsert(ctx, ProblemRecord{}), common.ErrBadRequest)
}

func TestSubmissionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySubmissionRepository()

	for i := 0; i < 5; i++ {
		problem := "sum"
		if i%2 == 1 {
			problem = "two"
		}
		require.NoError(t, repo.Create(ctx, &model.SubmissionHistoryItem{UserID: 1, ProblemID: problem}))
	}
	other := &model.SubmissionHistoryItem{UserID: 2, ProblemID: "sum"}
	require.NoError(t, repo.Create(ctx, other))

	page, err := repo.ListByUser(ctx, 1, "", 0, 2)
	require.NoError(t, err)
	require.Equal(t, 5, page.TotalItems)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, []int64{5, 4}, submissionIDs(page.Items))
	require.True(t, page.HasNext)
	require.NoError(t, page.Validate())

	last, err := repo.ListByUser(ctx, 1, "", 2, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, submissionIDs(last.Items))
	require.False(t, last.HasNext)
	require.True(t, last.HasPrevious)

	forTwo, err := repo.ListByUser(ctx, 1, "two", 0, 20)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 2}, submissionIDs(forTwo.Items))

	empty, err := repo.ListByUser(ctx, 3, "", 0, 20)
	require.NoError(t, err)
	require.Empty(t, empty.Items)
	require.Zero(t, empty.TotalPages)

	_, err = repo.FindByIDAndUser(ctx, other.ID, 1)
	require.ErrorIs(t, err, common.ErrNotFound)
	found, err := repo.FindByIDAndUser(ctx, other.ID, 2)
	require.NoError(t, err)
	require.Equal(t, "sum", found.ProblemID)
}

func ids(problems []model.ProblemSummary) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.ID
	}
	return out
}

func submissionIDs(items []model.SubmissionHistoryItem) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
