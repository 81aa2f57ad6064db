// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user API under /api/users. Every route requires the
// admin claim.
//
//	r.Mount("/api/users", users.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdminAPI)

	// Identity accounts and their admin claim
	r.Get("/", h.ListAccounts)
	r.Post("/", h.SetAdminClaim)

	// User documents
	r.Get("/firestore", h.ListUsers)
	r.Post("/firestore", h.CreateUser)
	r.Put("/firestore/{uid}", h.UpdateUser)
	r.Delete("/firestore/{uid}", h.DeleteUser)

	r.Post("/firestore/{uid}/profile-image", h.UploadProfileImage)
	r.Delete("/firestore/{uid}/profile-image", h.DeleteProfileImage)

	return r
}
