// internal/app/features/users/accounts.go
package users

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ListAccounts returns every identity account, newest first.
//
// Route: GET /api/users
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list accounts")
	defer cancel()

	list, err := h.Accounts.ListUsers(ctx)
	if err != nil {
		h.fail(w, err, "list users")
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	respond.JSON(w, http.StatusOK, map[string]any{"users": list, "count": len(list)})
}

type claimInput struct {
	UID   string `json:"uid"`
	Admin *bool  `json:"admin"`
}

// SetAdminClaim grants or revokes the admin claim and mirrors it onto the
// user document. Accounts without a document only get the claim.
//
// Route: POST /api/users
func (h *Handler) SetAdminClaim(w http.ResponseWriter, r *http.Request) {
	var in claimInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	in.UID = strings.TrimSpace(in.UID)

	errs := inputval.New()
	errs.Required("uid", in.UID)
	if in.Admin == nil {
		errs.Add("admin", "is required")
	}
	if err := errs.Err(); err != nil {
		h.fail(w, err, "set admin claim")
		return
	}
	admin := *in.Admin
	if !admin && authz.IsSelf(r, in.UID) {
		respond.Error(w, http.StatusBadRequest, "You cannot remove your own admin access")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set admin claim")
	defer cancel()

	if err := h.Accounts.SetCustomClaims(ctx, in.UID, adminClaims(admin)); err != nil {
		h.fail(w, err, "set admin claim", zap.String("uid", in.UID))
		return
	}
	if _, err := h.Users.SetAdmin(ctx, in.UID, admin, authz.Actor(r)); err != nil && !errors.Is(err, userstore.ErrNotFound) {
		// The claim is authoritative; the document catches up on the next role edit.
		h.Log.Warn("mirror admin claim to user document failed", zap.String("uid", in.UID), zap.Error(err))
	}
	h.Audit.AdminClaimChanged(ctx, r, in.UID, admin)

	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "uid": in.UID, "admin": admin})
}
