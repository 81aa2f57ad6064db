// internal/app/features/pages/handler.go
package pages

import (
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the static marketing and policy pages.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// Page describes one public page: the template it renders and its title.
type Page struct {
	Path     string
	Template string
	Title    string
}

// Public lists every page Routes serves, in nav order.
var Public = []Page{
	{"/", "home", "Vacation rentals, managed"},
	{"/about", "about", "About us"},
	{"/services", "services", "Services"},
	{"/privacy", "privacy", "Privacy Policy"},
	{"/terms", "terms", "Terms of Service"},
	{"/cookies", "cookies", "Cookie Policy"},
}

type pageVM struct {
	viewdata.BaseVM
}

// ServePage renders the named template with the common view data.
func (h *Handler) ServePage(tmpl, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates.Render(w, r, tmpl, pageVM{BaseVM: viewdata.NewBaseVM(r, title)})
	}
}
