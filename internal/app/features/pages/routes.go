// internal/app/features/pages/routes.go
package pages

import "github.com/go-chi/chi/v5"

// Register adds the public pages directly to r. They live at the site
// root, so they are not mounted as a subrouter.
func Register(r chi.Router, h *Handler) {
	for _, p := range Public {
		r.Get(p.Path, h.ServePage(p.Template, p.Title))
	}
}
