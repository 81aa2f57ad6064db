// internal/app/features/contact/routes.go
package contact

import "github.com/go-chi/chi/v5"

// Routes mounts the contact page.
//
//	r.Mount("/contact", contact.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeContact)
	return r
}

// APIRoutes mounts the form endpoint, rate limited per client IP.
//
//	r.Mount("/api/contact", contact.APIRoutes(h))
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	if h.Limiter != nil {
		r.Use(h.Limiter.ByIP("Too many messages. Please try again later."))
	}
	r.Post("/", h.SubmitContact)
	return r
}
