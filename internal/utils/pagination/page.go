package pagination

import (
	"strconv"
	"strings"
)

// ParsePage coerces a raw page parameter to an integer >= 1.
// Anything that is not a positive integer selects the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage keeps page within [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return min(max(page, 1), totalPages)
}

// Offset returns the zero-based index of the first item on page.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// Slice returns the page of items. An out-of-range page yields an empty slice.
func Slice[T any](items []T, page, pageSize int) []T {
	start := Offset(page, pageSize)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
