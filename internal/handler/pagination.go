package handler

import "termimage/backend/internal/repository"

// PaginationMeta describes the page a listing returned.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse wraps one page of a listing.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func newPaginatedResponse[T any](data []T, total int64, page repository.Page) PaginatedResponse[T] {
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  total,
			TotalPages:  page.TotalPages(total),
			CurrentPage: page.Number,
			PageSize:    page.Size,
		},
	}
}
