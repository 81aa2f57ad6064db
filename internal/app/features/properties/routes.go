// internal/app/features/properties/routes.go
package properties

import (
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/properties. Every route requires the admin claim.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdminAPI)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/images", h.UploadImages)
	return r
}
