package repository

import (
	"context"
	"sort"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.SubmissionHistoryItem) error
	// FindByIDAndUser returns ErrNotFound for another user's submission.
	FindByIDAndUser(ctx context.Context, id, userID int64) (*model.SubmissionHistoryItem, error)
	// ListByUser returns one page, newest first. problemID narrows it when set.
	ListByUser(ctx context.Context, userID int64, problemID string, page, size int) (model.Page[model.SubmissionHistoryItem], error)
}

type memorySubmissionRepository struct {
	submissions *xsync.MapOf[int64, *model.SubmissionHistoryItem]
	lastID      atomic.Int64
}

func NewMemorySubmissionRepository() SubmissionRepository {
	return &memorySubmissionRepository{submissions: xsync.NewMapOf[int64, *model.SubmissionHistoryItem]()}
}

func (r *memorySubmissionRepository) Create(ctx context.Context, sub *model.SubmissionHistoryItem) error {
	stored := *sub
	stored.ID = r.lastID.Add(1)
	r.submissions.Store(stored.ID, &stored)
	sub.ID = stored.ID
	return nil
}

func (r *memorySubmissionRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*model.SubmissionHistoryItem, error) {
	sub, ok := r.submissions.Load(id)
	if !ok || sub.UserID != userID {
		return nil, common.ErrNotFound
	}
	found := *sub
	return &found, nil
}

func (r *memorySubmissionRepository) ListByUser(ctx context.Context, userID int64, problemID string, page, size int) (model.Page[model.SubmissionHistoryItem], error) {
	var mine []model.SubmissionHistoryItem
	r.submissions.Range(func(_ int64, sub *model.SubmissionHistoryItem) bool {
		if sub.UserID == userID && (problemID == "" || sub.ProblemID == problemID) {
			mine = append(mine, *sub)
		}
		return true
	})
	// IDs increase with submission time.
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID > mine[j].ID })
	return model.NewPage(mine, page, size), nil
}
