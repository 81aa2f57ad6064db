package usertable_test

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/usertable"
	"github.com/dalemusser/rentalhub/internal/domain/models"
)

func sampleUsers() []models.User {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.User{
		{UID: "1", Name: "Alice Moreau", Email: "alice@villas.com", Role: "admin", Status: "active", CreatedAt: base},
		{UID: "2", Name: "bob stone", Email: "bob@example.com", Role: "user", Status: "pending", CreatedAt: base.Add(time.Hour)},
		{UID: "3", Name: "Carla Diaz", Email: "carla@VILLAS.com", Role: "user", Status: "active", CreatedAt: base.Add(2 * time.Hour)},
		{UID: "4", Name: "Dan Ortiz", Email: "dan@example.com", Role: "user", Status: "inactive", CreatedAt: base.Add(3 * time.Hour)},
	}
}

func uids(rows []models.User) string {
	s := ""
	for _, u := range rows {
		s += u.UID
	}
	return s
}

func TestFilter_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	users := sampleUsers()
	tests := []struct {
		search string
		want   string
	}{
		{"VILLAS", "13"},
		{"stone", "2"},
		{"ORTIZ", "4"},
		{"", "1234"},
		{"nobody", ""},
	}
	for _, tt := range tests {
		got := uids(usertable.Filter(users, usertable.Query{Search: tt.search}))
		if got != tt.want {
			t.Errorf("search %q: got %q, want %q", tt.search, got, tt.want)
		}
	}
}

func TestFilter_NeverGrows(t *testing.T) {
	users := sampleUsers()
	queries := []usertable.Query{
		{},
		{Role: "user"},
		{Status: "active"},
		{Role: "admin", Status: "pending"},
		{Search: "a", Role: "user", Status: "active"},
	}
	for _, q := range queries {
		if got := usertable.Filter(users, q); len(got) > len(users) {
			t.Errorf("%+v: filtered %d > input %d", q, len(got), len(users))
		}
	}
	if got := uids(usertable.Filter(users, usertable.Query{Role: "user", Status: "active"})); got != "3" {
		t.Errorf("role+status: got %q", got)
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	users := sampleUsers()
	usertable.Apply(users, usertable.Query{Sort: usertable.SortName, Dir: usertable.DirDesc})
	if uids(users) != "1234" {
		t.Errorf("input reordered: %q", uids(users))
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		column, dir, want string
	}{
		{usertable.SortName, usertable.DirAsc, "1234"},
		{usertable.SortName, usertable.DirDesc, "4321"},
		{usertable.SortEmail, usertable.DirAsc, "1234"},
		{usertable.SortStatus, usertable.DirAsc, "1342"},
		{usertable.SortCreatedAt, usertable.DirDesc, "4321"},
		{usertable.SortRole, usertable.DirAsc, "1234"},
	}
	for _, tt := range tests {
		users := sampleUsers()
		usertable.Sort(users, tt.column, tt.dir)
		if got := uids(users); got != tt.want {
			t.Errorf("%s %s: got %q, want %q", tt.column, tt.dir, got, tt.want)
		}
	}
}

func TestToggle(t *testing.T) {
	q := usertable.Query{Sort: usertable.SortName, Dir: usertable.DirAsc, Page: 3}

	q = q.Toggle(usertable.SortName)
	if q.Dir != usertable.DirDesc || q.Page != 1 {
		t.Errorf("same column: %+v", q)
	}
	q = q.Toggle(usertable.SortName)
	if q.Dir != usertable.DirAsc {
		t.Errorf("flip back: %+v", q)
	}
	q = q.Toggle(usertable.SortEmail)
	if q.Sort != usertable.SortEmail || q.Dir != usertable.DirAsc {
		t.Errorf("new column: %+v", q)
	}
	if got := q.Toggle("password"); got != q {
		t.Errorf("unknown column should be ignored: %+v", got)
	}
}

func TestApply_PagesAndClamps(t *testing.T) {
	var users []models.User
	for i := 0; i < 23; i++ {
		users = append(users, models.User{UID: fmt.Sprint(i), Name: fmt.Sprintf("user %02d", i), Role: "user", Status: "active"})
	}

	res := usertable.Apply(users, usertable.Query{Sort: usertable.SortName, Dir: usertable.DirAsc, Page: 99, PageSize: 10})
	if res.Page != 3 || res.Pages != 3 || len(res.Rows) != 3 {
		t.Errorf("clamped page: page=%d pages=%d rows=%d", res.Page, res.Pages, len(res.Rows))
	}
	if res.Total != 23 || res.Filtered != 23 {
		t.Errorf("counts: %d %d", res.Total, res.Filtered)
	}

	res = usertable.Apply(users, usertable.Query{Page: 0})
	if res.Page != 1 || len(res.Rows) != 10 {
		t.Errorf("page 0: page=%d rows=%d", res.Page, len(res.Rows))
	}

	res = usertable.Apply(nil, usertable.DefaultQuery())
	if res.Page != 1 || res.Pages != 1 || len(res.Rows) != 0 {
		t.Errorf("empty: %+v", res)
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/users/firestore?search=+Ali+&role=ADMIN&status=all&sort=email&dir=desc&page=2", nil)
	q := usertable.FromRequest(req)
	if q.Search != "Ali" || q.Role != "admin" || q.Status != "" || q.Sort != "email" || q.Dir != "desc" || q.Page != 2 {
		t.Errorf("unexpected query %+v", q)
	}

	q = usertable.FromRequest(httptest.NewRequest("GET", "/?sort=bogus&role=owner", nil))
	if q.Sort != usertable.SortCreatedAt || q.Dir != usertable.DirDesc || q.Role != "" {
		t.Errorf("defaults: %+v", q)
	}
}
