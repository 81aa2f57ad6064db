// internal/app/features/emailsettings/routes.go
package emailsettings

import (
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the settings API under /api/settings/email. Admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdminAPI)
	r.Get("/", h.GetSettings)
	r.Put("/", h.UpdateSettings)
	return r
}
