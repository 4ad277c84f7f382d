package response

import (
	"fmt"

	"movie-catalog/pkg/utils"
)

type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginatedResponse[T any](data []T, page, perPage int, total int64) *PaginatedResponse[T] {
	return &PaginatedResponse[T]{
		Data: data,
		Pagination: PaginationMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: utils.CalculateTotalPages(total, perPage),
		},
	}
}

// HasPrev reports whether a previous page link applies
func (m PaginationMeta) HasPrev() bool {
	return m.Page > 1
}

// HasNext reports whether a next page link applies
func (m PaginationMeta) HasNext() bool {
	return m.Page < m.TotalPages
}

// PageLink builds a relative link such as /movies/?page=2&per_page=10
func PageLink(path string, page, perPage int) *string {
	link := fmt.Sprintf("%s?page=%d&per_page=%d", path, page, perPage)
	return &link
}
