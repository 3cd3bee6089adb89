package repository

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type memoryUserRepository struct {
	byEmail *xsync.MapOf[string, *model.User]
	byID    *xsync.MapOf[int64, *model.User]
	lastID  atomic.Int64
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byEmail: xsync.NewMapOf[string, *model.User](),
		byID:    xsync.NewMapOf[int64, *model.User](),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create assigns the user's ID. Emails are unique, compared case-insensitively.
func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	stored := *user
	stored.ID = r.lastID.Add(1)
	if _, loaded := r.byEmail.LoadOrStore(emailKey(user.Email), &stored); loaded {
		return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
	}
	r.byID.Store(stored.ID, &stored)
	user.ID = stored.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := r.byEmail.Load(emailKey(email))
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := r.byID.Load(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *user
	return &found, nil
}
