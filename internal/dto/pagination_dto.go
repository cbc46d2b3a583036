// FILE: internal/dto/pagination_dto.go
package dto

import (
	"gymflow-be/internal/entity"
	"gymflow-be/internal/pkg/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type PageRequest struct {
	Page  int
	Limit int
}

// Resolve checks the window; callers fill in DefaultPage/DefaultLimit for absent parameters.
func (p PageRequest) Resolve() (entity.PageQuery, error) {
	fields := map[string]string{}
	if p.Page < 1 {
		fields["page"] = "Must be at least 1"
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		fields["limit"] = "Must be between 1 and 100"
	}
	if len(fields) > 0 {
		return entity.PageQuery{}, apperror.Validation(fields)
	}
	return entity.PageQuery{Page: p.Page, Limit: p.Limit}, nil
}

type PaginatedResponse[T any] struct {
	Items       []T   `json:"items"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPaginatedResponse[T any](items []T, total int64, page entity.PageQuery) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return &PaginatedResponse[T]{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page.Page,
		HasNextPage: page.Page < totalPages,
		HasPrevPage: page.Page > 1,
	}
}
