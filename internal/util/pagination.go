package util

import "strconv"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Calculate clamps page to >= 1 and size to [1,MaxPageSize] and returns the
// resulting offset/limit pair.
func Calculate(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, (page - 1) * size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
