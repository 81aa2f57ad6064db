// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged tables.
const PageSize = 10

// MaxPageSize bounds a caller-supplied page size.
const MaxPageSize = 100

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	return parsePositive(query.Get(r, "page"), 1)
}

// ParsePageSize extracts "page_size", defaulting to PageSize and capping at
// MaxPageSize.
func ParsePageSize(r *http.Request) int {
	n := parsePositive(query.Get(r, "page_size"), PageSize)
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Pages returns the number of pages needed for total rows (at least 1).
func Pages(total, size int) int {
	if size < 1 {
		size = PageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp forces page into [1, Pages(total, size)].
func Clamp(page, total, size int) int {
	if page < 1 {
		return 1
	}
	if last := Pages(total, size); page > last {
		return last
	}
	return page
}

// Bounds returns the [lo, hi) slice bounds of page.
func Bounds(page, total, size int) (lo, hi int) {
	if size < 1 {
		size = PageSize
	}
	page = Clamp(page, total, size)
	lo = (page - 1) * size
	if lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// Range holds display values for a paged table.
type Range struct {
	Start    int // 1-based index of first row shown (0 if no rows)
	End      int // 1-based index of last row shown (0 if no rows)
	PrevPage int
	NextPage int
	HasPrev  bool
	HasNext  bool
}

// ComputeRange describes page of a table with total rows.
func ComputeRange(page, total, size int) Range {
	page = Clamp(page, total, size)
	lo, hi := Bounds(page, total, size)
	last := Pages(total, size)
	r := Range{PrevPage: page - 1, NextPage: page + 1, HasPrev: page > 1, HasNext: page < last}
	if !r.HasPrev {
		r.PrevPage = 1
	}
	if !r.HasNext {
		r.NextPage = last
	}
	if hi > lo {
		r.Start, r.End = lo+1, hi
	}
	return r
}
