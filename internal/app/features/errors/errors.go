// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
	BackURL string
}

// isAPI reports whether r expects a JSON answer rather than a page.
func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// NotFound answers unknown routes: JSON under /api, a page elsewhere.
func NotFound(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		respond.Error(w, http.StatusNotFound, "Not found")
		return
	}
	render(w, r, http.StatusNotFound, "Page not found", "We couldn't find the page you were looking for.", "/")
}

// MethodNotAllowed answers a known path hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPI(r) {
		respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	render(w, r, http.StatusMethodNotAllowed, "Not allowed", "That action isn't available here.", "/")
}

// RenderForbidden shows an access error page. An empty backURL means "/".
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

func render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, title),
		Status:  status,
		Message: msg,
		BackURL: backURL,
	})
}
