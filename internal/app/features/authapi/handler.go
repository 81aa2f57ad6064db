// internal/app/features/authapi/handler.go
package authapi

import (
	"net/http"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/app/system/authutil"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const maxBodyBytes = 16 << 10

type Handler struct {
	SignIn *authutil.SignIn
	Audit  *auditlog.Logger
	Secure bool // Secure flag on the token cookie
	Log    *zap.Logger
}

func NewHandler(signIn *authutil.SignIn, audit *auditlog.Logger, secure bool, logger *zap.Logger) *Handler {
	return &Handler{SignIn: signIn, Audit: audit, Secure: secure, Log: logger}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Admin       bool   `json:"admin"`
}

// Login exchanges admin credentials for the admin-token cookie.
//
// Route: POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "sign in")
	defer cancel()

	sess, err := h.SignIn.Attempt(ctx, r, in.Email, in.Password)
	if err != nil {
		respond.Error(w, authutil.Status(err), authutil.Message(err))
		return
	}

	auth.SetTokenCookie(w, sess.Token, sess.TTL, h.Secure)
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": meResponse{
			UID:         sess.Account.UID,
			Email:       sess.Account.Email,
			DisplayName: sess.Account.DisplayName,
			Admin:       sess.Account.Admin,
		},
	})
}

// Logout expires the token cookie.
//
// Route: POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Audit.Logout(r.Context(), r)
	auth.ClearTokenCookie(w, h.Secure)
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me describes the verified caller.
//
// Route: GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"user": meResponse{UID: u.UID, Email: u.Email, DisplayName: u.Name, Admin: u.Admin},
	})
}
