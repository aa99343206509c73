package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is a page/limit pair resolved from the query string.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads ?page= and ?limit=. Missing or non-positive values
// fall back to page 1 and DefaultPageSize; limit is capped at MaxPageSize.
func ParsePagination(c *fiber.Ctx) Pagination {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", DefaultPageSize)
	switch {
	case limit < 1:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Meta describes the page for a response body given the total row count.
func (p Pagination) Meta(total int64) fiber.Map {
	pages := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return fiber.Map{
		"current_page":   p.Page,
		"items_per_page": p.Limit,
		"total_items":    total,
		"total_pages":    pages,
	}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return n
}
