// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log viewer (typically at "/admin/audit").
// Only admins may read it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)

	r.Get("/", h.ServeList)

	return r
}
