// Package usertable filters, sorts and pages the admin user list in memory.
//
// The admin dashboard fetches every user document once and lets the
// operator narrow it down; nothing here touches the database.
package usertable

import (
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/paging"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// Sortable columns.
const (
	SortName      = "name"
	SortEmail     = "email"
	SortRole      = "role"
	SortStatus    = "status"
	SortCreatedAt = "created_at"
)

const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// Query is the table state: filters, sort, and page.
type Query struct {
	Search   string
	Role     string // "" = all
	Status   string // "" = all
	Sort     string
	Dir      string
	Page     int
	PageSize int
}

// DefaultQuery sorts newest first.
func DefaultQuery() Query {
	return Query{Sort: SortCreatedAt, Dir: DirDesc, Page: 1, PageSize: paging.PageSize}
}

// FromRequest reads search, role, status, sort, dir, page and page_size.
// Unknown values fall back to the defaults.
func FromRequest(r *http.Request) Query {
	q := DefaultQuery()
	q.Search = strings.TrimSpace(query.Get(r, "search"))
	if role := normalize.Filter(query.Get(r, "role")); models.ValidRole(role) {
		q.Role = role
	}
	if status := normalize.Filter(query.Get(r, "status")); models.ValidStatus(status) {
		q.Status = status
	}
	if s := strings.ToLower(query.Get(r, "sort")); validSort(s) {
		q.Sort = s
		q.Dir = DirAsc
	}
	if d := strings.ToLower(query.Get(r, "dir")); d == DirAsc || d == DirDesc {
		q.Dir = d
	}
	q.Page = paging.ParsePage(r)
	q.PageSize = paging.ParsePageSize(r)
	return q
}

// Toggle applies a click on column: the same column flips direction, a
// new column starts ascending. The page resets to 1.
func (q Query) Toggle(column string) Query {
	if !validSort(column) {
		return q
	}
	if q.Sort == column {
		if q.Dir == DirAsc {
			q.Dir = DirDesc
		} else {
			q.Dir = DirAsc
		}
	} else {
		q.Sort, q.Dir = column, DirAsc
	}
	q.Page = 1
	return q
}

// Result is one rendered page of the table.
type Result struct {
	Rows     []models.User
	Total    int // rows before filtering
	Filtered int // rows after filtering
	Page     int
	Pages    int
	PageSize int
	Range    paging.Range
	Query    Query
}

// Apply filters, sorts and pages users. The input slice is not modified.
func Apply(users []models.User, q Query) Result {
	if q.PageSize < 1 {
		q.PageSize = paging.PageSize
	}
	filtered := Filter(users, q)
	Sort(filtered, q.Sort, q.Dir)

	q.Page = paging.Clamp(q.Page, len(filtered), q.PageSize)
	lo, hi := paging.Bounds(q.Page, len(filtered), q.PageSize)
	return Result{
		Rows:     filtered[lo:hi],
		Total:    len(users),
		Filtered: len(filtered),
		Page:     q.Page,
		Pages:    paging.Pages(len(filtered), q.PageSize),
		PageSize: q.PageSize,
		Range:    paging.ComputeRange(q.Page, len(filtered), q.PageSize),
		Query:    q,
	}
}

// Filter returns a new slice of users matching search, role and status.
func Filter(users []models.User, q Query) []models.User {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		if q.Status != "" && u.Status != q.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Sort orders users in place by column. Ties keep their input order.
func Sort(users []models.User, column, dir string) {
	less := lessFunc(column)
	if less == nil {
		return
	}
	desc := dir == DirDesc
	sort.SliceStable(users, func(i, j int) bool {
		if desc {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}

func lessFunc(column string) func(a, b models.User) bool {
	switch column {
	case SortName:
		return func(a, b models.User) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortEmail:
		return func(a, b models.User) bool { return a.Email < b.Email }
	case SortRole:
		return func(a, b models.User) bool { return a.Role < b.Role }
	case SortStatus:
		return func(a, b models.User) bool { return a.Status < b.Status }
	case SortCreatedAt:
		return func(a, b models.User) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	return nil
}

func validSort(s string) bool {
	return lessFunc(s) != nil
}
