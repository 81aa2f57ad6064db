// internal/app/features/admin/users.go
package admin

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/usertable"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type column struct {
	Key    string
	Label  string
	URL    string
	Active bool
	Dir    string
}

type usersData struct {
	viewdata.BaseVM
	Table   usertable.Result
	Columns []column
	PrevURL string
	NextURL string
	Error   string
}

// tableURL encodes q as a link back to /admin/users.
func tableURL(q usertable.Query) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	v.Set("sort", q.Sort)
	v.Set("dir", q.Dir)
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return "/admin/users?" + v.Encode()
}

// ServeUsers renders the searchable, sortable user table.
//
// Route: GET /admin/users
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	q := usertable.FromRequest(r)
	data := usersData{BaseVM: viewdata.NewBaseVM(r, "Users")}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin users")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("admin users list failed", zap.Error(err))
		data.Error = "Users could not be loaded. Try again shortly."
	}
	data.Table = usertable.Apply(users, q)
	q = data.Table.Query

	for _, c := range []struct{ key, label string }{
		{usertable.SortName, "Name"},
		{usertable.SortEmail, "Email"},
		{usertable.SortRole, "Role"},
		{usertable.SortStatus, "Status"},
		{usertable.SortCreatedAt, "Created"},
	} {
		col := column{Key: c.key, Label: c.label, URL: tableURL(q.Toggle(c.key))}
		if q.Sort == c.key {
			col.Active, col.Dir = true, q.Dir
		}
		data.Columns = append(data.Columns, col)
	}

	rng := data.Table.Range
	if rng.HasPrev {
		prev := q
		prev.Page = rng.PrevPage
		data.PrevURL = tableURL(prev)
	}
	if rng.HasNext {
		next := q
		next.Page = rng.NextPage
		data.NextURL = tableURL(next)
	}

	templates.Render(w, r, "admin_users", data)
}
