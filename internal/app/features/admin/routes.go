// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the admin screens under /admin. Callers without the admin
// claim are sent to /login with a return URL.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)

	r.Get("/", h.ServeDashboard)
	r.Get("/users", h.ServeUsers)
	r.Get("/properties", h.ServeProperties)

	return r
}
