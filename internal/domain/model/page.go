package model

import "fmt"

// Page is one zero-indexed page of a listing.
type Page[T any] struct {
	Items       []T  `json:"content"`
	PageIndex   int  `json:"page"`
	PageSize    int  `json:"size"`
	TotalItems  int  `json:"totalElements"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// NewPage slices all into the requested page. pageSize must be positive.
func NewPage[T any](all []T, pageIndex, pageSize int) Page[T] {
	total := len(all)
	totalPages := (total + pageSize - 1) / pageSize
	// clamp before multiplying so a huge index cannot overflow
	start := max(min(pageIndex, totalPages), 0) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return Page[T]{
		Items:       items,
		PageIndex:   pageIndex,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     pageIndex+1 < totalPages,
		HasPrevious: pageIndex > 0,
	}
}

func (p Page[T]) Validate() error {
	if p.PageIndex < 0 || p.PageSize <= 0 {
		return fmt.Errorf("invalid page %d of size %d", p.PageIndex, p.PageSize)
	}
	if len(p.Items) > p.PageSize {
		return fmt.Errorf("page holds %d items, more than its size %d", len(p.Items), p.PageSize)
	}
	if p.HasNext != (p.PageIndex+1 < p.TotalPages) {
		return fmt.Errorf("hasNext=%t disagrees with page %d of %d", p.HasNext, p.PageIndex, p.TotalPages)
	}
	if p.HasPrevious != (p.PageIndex > 0) {
		return fmt.Errorf("hasPrevious=%t disagrees with page %d", p.HasPrevious, p.PageIndex)
	}
	return nil
}
