package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ClampPage keeps page within [1, math.MaxInt/size] so that offset+size
// cannot overflow.
func ClampPage(page, size int) int {
	if page < 1 {
		return 1
	}
	if size > 0 && page > math.MaxInt/size {
		return math.MaxInt / size
	}
	return page
}

func Calculate(page, size int) (offset, limit int) {
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	page = ClampPage(page, size)
	offset = (page - 1) * size
	return offset, size
}

// Page returns the items in [offset, offset+limit).
func Page[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

func Meta(page, limit int, total int64) map[string]any {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	page = ClampPage(page, limit)
	offset := (page - 1) * limit
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}
