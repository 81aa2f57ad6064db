package pages_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/features/pages"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestRegister_AllPublicPages(t *testing.T) {
	r := chi.NewRouter()
	pages.Register(r, pages.NewHandler(zap.NewNop()))

	want := map[string]bool{"/": true, "/about": true, "/services": true, "/privacy": true, "/terms": true, "/cookies": true}
	got := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodGet {
			got[route] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	for path := range want {
		if !got[path] {
			t.Errorf("route %s not registered", path)
		}
	}
	if len(got) != len(want) {
		t.Errorf("registered %d routes, want %d", len(got), len(want))
	}
}

func TestPublic_TemplatesAndTitlesSet(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range pages.Public {
		if p.Template == "" || p.Title == "" {
			t.Errorf("page %s missing template or title", p.Path)
		}
		if seen[p.Template] {
			t.Errorf("template %q used twice", p.Template)
		}
		seen[p.Template] = true
	}
}
