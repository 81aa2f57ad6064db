// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Audit  *auditlog.Logger
	Secure bool
	Log    *zap.Logger
}

func NewHandler(audit *auditlog.Logger, secure bool, logger *zap.Logger) *Handler {
	return &Handler{Audit: audit, Secure: secure, Log: logger}
}

// ServeLogout handles GET /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		h.Audit.Logout(r.Context(), r)
	}
	auth.ClearTokenCookie(w, h.Secure)

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
