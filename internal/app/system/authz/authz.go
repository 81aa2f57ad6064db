// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/domain/models"
)

// UserCtx returns the caller's role, uid, email, and a found flag.
// Anonymous callers get "visitor", "", "", false.
func UserCtx(r *http.Request) (role, uid, email string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", false
	}
	if u.Admin {
		return models.RoleAdmin, u.UID, u.Email, true
	}
	return models.RoleUser, u.UID, u.Email, true
}

// IsAdmin reports whether the caller holds the admin claim.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.Admin
}

// Actor is the value recorded in created_by / updated_by / promotion "by"
// fields: the caller's email, falling back to uid, or "system".
func Actor(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	switch {
	case !ok:
		return "system"
	case u.Email != "":
		return u.Email
	default:
		return u.UID
	}
}

// IsSelf reports whether uid is the caller's own account.
func IsSelf(r *http.Request, uid string) bool {
	u, ok := auth.CurrentUser(r)
	return ok && uid != "" && u.UID == uid
}
