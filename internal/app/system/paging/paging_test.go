package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/system/paging"
)

func TestPages(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 0, 3},
	}
	for _, tt := range tests {
		if got := paging.Pages(tt.total, tt.size); got != tt.want {
			t.Errorf("Pages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := paging.Clamp(0, 25, 10); got != 1 {
		t.Errorf("below range: got %d", got)
	}
	if got := paging.Clamp(9, 25, 10); got != 3 {
		t.Errorf("above range: got %d", got)
	}
	if got := paging.Clamp(2, 25, 10); got != 2 {
		t.Errorf("in range: got %d", got)
	}
}

func TestBounds(t *testing.T) {
	lo, hi := paging.Bounds(3, 25, 10)
	if lo != 20 || hi != 25 {
		t.Errorf("last page: got [%d,%d)", lo, hi)
	}
	lo, hi = paging.Bounds(1, 0, 10)
	if lo != 0 || hi != 0 {
		t.Errorf("empty: got [%d,%d)", lo, hi)
	}
}

func TestComputeRange(t *testing.T) {
	r := paging.ComputeRange(2, 25, 10)
	if r.Start != 11 || r.End != 20 || !r.HasPrev || !r.HasNext || r.PrevPage != 1 || r.NextPage != 3 {
		t.Errorf("middle page: %+v", r)
	}
	r = paging.ComputeRange(1, 0, 10)
	if r.Start != 0 || r.End != 0 || r.HasPrev || r.HasNext {
		t.Errorf("empty: %+v", r)
	}
}

func TestParsePageAndSize(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/users?page=3&page_size=500", nil)
	if got := paging.ParsePage(req); got != 3 {
		t.Errorf("page: got %d", got)
	}
	if got := paging.ParsePageSize(req); got != paging.MaxPageSize {
		t.Errorf("page_size: got %d", got)
	}

	req = httptest.NewRequest("GET", "/admin/users?page=-2&page_size=abc", nil)
	if got := paging.ParsePage(req); got != 1 {
		t.Errorf("bad page: got %d", got)
	}
	if got := paging.ParsePageSize(req); got != paging.PageSize {
		t.Errorf("bad page_size: got %d", got)
	}
}
