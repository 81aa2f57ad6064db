package admin

import (
	"net/url"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/system/usertable"
	"github.com/dalemusser/rentalhub/internal/domain/models"
)

func TestTableURL_RoundTripsQuery(t *testing.T) {
	q := usertable.Query{Search: "ana lima", Role: "admin", Sort: usertable.SortEmail, Dir: usertable.DirAsc, Page: 3, PageSize: 25}
	u, err := url.Parse(tableURL(q))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Path != "/admin/users" {
		t.Errorf("path = %q", u.Path)
	}
	v := u.Query()
	want := map[string]string{"search": "ana lima", "role": "admin", "sort": "email", "dir": "asc", "page": "3", "page_size": "25"}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
	if v.Has("status") {
		t.Error("empty status should be omitted")
	}
}

func TestTableURL_FirstPageOmitsPage(t *testing.T) {
	q := usertable.DefaultQuery()
	u, _ := url.Parse(tableURL(q))
	if u.Query().Has("page") {
		t.Errorf("page present in %q", u.String())
	}
}

func TestFilterProperties(t *testing.T) {
	props := []models.Property{
		{Title: "Casa Azul", Status: models.ListingActive, Address: models.Address{City: "Tulum"}},
		{Title: "Harbour Loft", Status: models.ListingDraft, Address: models.Address{City: "Sydney"}},
		{Title: "Chalet Éclat", Status: models.ListingActive, Address: models.Address{City: "Verbier"}},
	}

	tests := []struct {
		name   string
		search string
		status string
		want   []string
	}{
		{"all", "", "", []string{"Casa Azul", "Harbour Loft", "Chalet Éclat"}},
		{"status only", "", models.ListingDraft, []string{"Harbour Loft"}},
		{"title match", "casa", "", []string{"Casa Azul"}},
		{"city match", "SYDNEY", "", []string{"Harbour Loft"}},
		{"accent insensitive", "eclat", "", []string{"Chalet Éclat"}},
		{"search and status", "l", models.ListingActive, []string{"Casa Azul", "Chalet Éclat"}},
		{"no match", "paris", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := filterProperties(props, tc.search, tc.status)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d rows, want %d", len(got), len(tc.want))
			}
			for i, p := range got {
				if p.Title != tc.want[i] {
					t.Errorf("row %d = %q, want %q", i, p.Title, tc.want[i])
				}
			}
		})
	}
}
