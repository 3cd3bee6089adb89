package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"judge_client/internal/common"
	"judge_client/internal/domain/model"
)

// ProblemRecord is a catalogue entry with its hidden tests.
type ProblemRecord struct {
	model.ProblemDetail
	Tests []model.TestCase

	seq int64
}

// ProblemFilter is applied conjunctively; empty fields match everything.
type ProblemFilter struct {
	Category   string
	Difficulty string
	Search     string // case-insensitive substring of the title
}

func (f ProblemFilter) matches(p *ProblemRecord) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.Difficulty != "" && !strings.EqualFold(f.Difficulty, string(p.Difficulty)) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

type ProblemRepository interface {
	Upsert(ctx context.Context, problem ProblemRecord) error
	FindByID(ctx context.Context, id string) (*ProblemRecord, error)
	List(ctx context.Context, filter ProblemFilter) ([]model.ProblemSummary, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
}

type memoryProblemRepository struct {
	problems *xsync.MapOf[string, *ProblemRecord]
	seq      atomic.Int64
}

func NewMemoryProblemRepository() ProblemRepository {
	return &memoryProblemRepository{problems: xsync.NewMapOf[string, *ProblemRecord]()}
}

// Upsert keeps a replaced problem at its original list position.
func (r *memoryProblemRepository) Upsert(ctx context.Context, problem ProblemRecord) error {
	if problem.ID == "" {
		return fmt.Errorf("problem id is required: %w", common.ErrBadRequest)
	}
	r.problems.Compute(problem.ID, func(old *ProblemRecord, loaded bool) (*ProblemRecord, bool) {
		stored := problem
		if loaded {
			stored.seq = old.seq
		} else {
			stored.seq = r.seq.Add(1)
		}
		return &stored, false
	})
	return nil
}

func (r *memoryProblemRepository) FindByID(ctx context.Context, id string) (*ProblemRecord, error) {
	problem, ok := r.problems.Load(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *problem
	return &found, nil
}

func (r *memoryProblemRepository) sorted() []*ProblemRecord {
	all := make([]*ProblemRecord, 0, r.problems.Size())
	r.problems.Range(func(_ string, p *ProblemRecord) bool {
		all = append(all, p)
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	return all
}

func (r *memoryProblemRepository) List(ctx context.Context, filter ProblemFilter) ([]model.ProblemSummary, error) {
	summaries := []model.ProblemSummary{}
	for _, p := range r.sorted() {
		if filter.matches(p) {
			summaries = append(summaries, p.Summary())
		}
	}
	return summaries, nil
}

// Categories lists distinct categories in catalogue order.
func (r *memoryProblemRepository) Categories(ctx context.Context) ([]string, error) {
	return distinct(r.sorted(), func(p *ProblemRecord) []string { return []string{p.Category} }), nil
}

func (r *memoryProblemRepository) Tags(ctx context.Context) ([]string, error) {
	return distinct(r.sorted(), func(p *ProblemRecord) []string { return p.Tags }), nil
}

func distinct(problems []*ProblemRecord, values func(*ProblemRecord) []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, p := range problems {
		for _, v := range values(p) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
