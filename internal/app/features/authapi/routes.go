// internal/app/features/authapi/routes.go
package authapi

import (
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the auth API under /api/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.With(auth.RequireSignedInAPI).Get("/me", h.Me)
	return r
}
