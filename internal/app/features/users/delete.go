// internal/app/features/users/delete.go
package users

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// deleteOutcome is what happened to each half of a user.
type deleteOutcome struct {
	AccountDeleted  bool   `json:"authDeleted"`
	DocumentDeleted bool   `json:"firestoreDeleted"`
	AccountError    string `json:"authError,omitempty"`
	DocumentError   string `json:"firestoreError,omitempty"`

	accountMissing  bool
	documentMissing bool
}

func (o deleteOutcome) accountFailed() bool  { return !o.AccountDeleted && !o.accountMissing }
func (o deleteOutcome) documentFailed() bool { return !o.DocumentDeleted && !o.documentMissing }

// DeleteUser removes the identity account and the user document, each
// attempted regardless of the other. The profile image goes too once both
// halves are gone.
//
// Route: DELETE /api/users/firestore/{uid}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}
	if authz.IsSelf(r, uid) {
		respond.Error(w, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete user")
	defer cancel()

	var photoURL string
	if u, err := h.Users.GetByUID(ctx, uid); err == nil {
		photoURL = u.PhotoURL
	} else if !errors.Is(err, userstore.ErrNotFound) {
		h.Log.Warn("load user before delete failed", zap.String("uid", uid), zap.Error(err))
	}

	var out deleteOutcome
	switch err := h.Accounts.DeleteUser(ctx, uid); {
	case err == nil:
		out.AccountDeleted = true
	case errors.Is(err, identity.ErrAccountNotFound):
		out.accountMissing = true
	default:
		out.AccountError = err.Error()
		h.Log.Error("delete account failed", zap.String("uid", uid), zap.Error(err))
	}
	switch n, err := h.Users.Delete(ctx, uid); {
	case err != nil:
		out.DocumentError = err.Error()
		h.Log.Error("delete user document failed", zap.String("uid", uid), zap.Error(err))
	case n == 0:
		out.documentMissing = true
	default:
		out.DocumentDeleted = true
	}

	switch {
	case out.accountMissing && out.documentMissing:
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	case !out.AccountDeleted && !out.DocumentDeleted:
		// Nothing was removed, so there is no partial state to report.
		respond.Error(w, http.StatusInternalServerError, "Failed to delete user")
		return
	case out.accountFailed() || out.documentFailed():
		reason := out.AccountError
		if reason == "" {
			reason = out.DocumentError
		}
		h.Audit.UserDeletePartial(ctx, r, uid, out.AccountDeleted, out.DocumentDeleted, reason)
		respond.ErrorDetails(w, http.StatusInternalServerError,
			"Partial deletion occurred, please contact support", out)
		return
	}

	h.deleteImage(ctx, photoURL, "user_delete")
	h.Audit.UserDeleted(ctx, r, uid)
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "uid": uid})
}
