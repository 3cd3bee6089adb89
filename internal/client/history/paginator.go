// Package history pages through the signed-in user's past submissions.
package history

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"judge_client/internal/domain/model"
)

// DefaultPageSize is used when the paginator is built with a non-positive size.
const DefaultPageSize = 20

// ErrStale is returned to a caller whose response arrived after a newer
// load had already been applied. The response is discarded.
var ErrStale = errors.New("history: response superseded by a newer load")

type Page = model.Page[model.SubmissionHistoryItem]

// Fetcher is the history call the paginator depends on.
// *judgeapi.Client satisfies it.
type Fetcher interface {
	MySubmissions(ctx context.Context, page, size int) (*Page, error)
}

type Paginator struct {
	fetcher  Fetcher
	pageSize int
	logger   *slog.Logger

	mu      sync.Mutex
	issued  uint64 // generation of the newest request sent
	applied uint64 // generation of the page in current
	current *Page
}

func NewPaginator(fetcher Fetcher, pageSize int, logger *slog.Logger) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{fetcher: fetcher, pageSize: pageSize, logger: logger}
}

// Load fetches one page and makes it current. Fetch errors are returned
// unchanged and leave the current page as it was.
func (p *Paginator) Load(ctx context.Context, pageIndex, pageSize int) (*Page, error) {
	if pageSize <= 0 {
		pageSize = p.pageSize
	}

	p.mu.Lock()
	p.issued++
	generation := p.issued
	p.mu.Unlock()

	page, err := p.fetcher.MySubmissions(ctx, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if generation < p.applied {
		p.logger.Debug("discarding stale history page", "page", pageIndex, "generation", generation, "applied", p.applied)
		return nil, ErrStale
	}
	p.applied = generation
	p.current = page
	if page.PageSize > 0 {
		p.pageSize = page.PageSize
	}
	return page, nil
}

// Next loads the following page. It sends nothing and returns ok=false
// unless the current page reports one.
func (p *Paginator) Next(ctx context.Context) (*Page, bool, error) {
	p.mu.Lock()
	current, size := p.current, p.pageSize
	p.mu.Unlock()
	if current == nil || !current.HasNext {
		return nil, false, nil
	}
	page, err := p.Load(ctx, current.PageIndex+1, size)
	return page, true, err
}

// Previous is the mirror of Next.
func (p *Paginator) Previous(ctx context.Context) (*Page, bool, error) {
	p.mu.Lock()
	current, size := p.current, p.pageSize
	p.mu.Unlock()
	if current == nil || !current.HasPrevious {
		return nil, false, nil
	}
	page, err := p.Load(ctx, current.PageIndex-1, size)
	return page, true, err
}

// Current returns the last applied page, or nil before the first load.
func (p *Paginator) Current() *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
