package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams reads ?page= and ?limit=. ok is false when the request asked for neither, in
// which case callers return the full list.
func GetPaginationParams(c echo.Context) (params PaginationParams, ok bool) {
	pageParam, limitParam := c.QueryParam("page"), c.QueryParam("limit")
	if pageParam == "" && limitParam == "" {
		return PaginationParams{}, false
	}

	page, _ := strconv.Atoi(pageParam)
	pageSize, _ := strconv.Atoi(limitParam)

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}, true
}

// Paginate returns the page of items described by p, or an empty slice past the end.
func Paginate[T any](items []T, p PaginationParams) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}
