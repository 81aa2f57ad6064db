// internal/app/features/users/update.go
package users

import (
	"errors"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.uber.org/zap"
)

type updateInput struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

func (in *updateInput) normalize() {
	if in.Name != nil {
		v := normalize.Name(*in.Name)
		in.Name = &v
	}
	if in.Role != nil {
		v := normalize.Role(*in.Role)
		in.Role = &v
	}
	if in.Status != nil {
		v := normalize.Status(*in.Status)
		in.Status = &v
	}
}

func (in updateInput) validate() error {
	errs := inputval.New()
	if in.Name == nil && in.Role == nil && in.Status == nil {
		errs.Add("body", "supply at least one of name, role, status")
	}
	if in.Name != nil {
		errs.Required("name", *in.Name)
		errs.MaxLen("name", *in.Name, 100)
	}
	if in.Role != nil {
		errs.OneOf("role", *in.Role, models.RoleUser, models.RoleAdmin)
	}
	if in.Status != nil {
		errs.OneOf("status", *in.Status, models.StatusActive, models.StatusInactive, models.StatusPending)
	}
	return errs.Err()
}

// UpdateUser edits name, role and status. A role change updates the
// account's admin claim first and appends to the promotion history; an
// inactive status disables sign-in.
//
// Route: PUT /api/users/firestore/{uid}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	in.normalize()
	if err := in.validate(); err != nil {
		h.fail(w, err, "update user")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update user")
	defer cancel()

	cur, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		h.fail(w, err, "load user", zap.String("uid", uid))
		return
	}

	upd := userstore.Update{Name: in.Name, Role: in.Role, Status: in.Status}
	roleChanged := in.Role != nil && *in.Role != cur.Role
	if roleChanged {
		admin := *in.Role == models.RoleAdmin
		if !admin && authz.IsSelf(r, uid) {
			respond.Error(w, http.StatusBadRequest, "You cannot remove your own admin access")
			return
		}
		err := h.Accounts.SetCustomClaims(ctx, uid, adminClaims(admin))
		switch {
		case errors.Is(err, identity.ErrAccountNotFound):
			h.Log.Warn("role change on user without account", zap.String("uid", uid))
		case err != nil:
			h.fail(w, err, "update user claims", zap.String("uid", uid))
			return
		}
		upd.Promotion = &models.Promotion{
			From: cur.Role,
			To:   *in.Role,
			By:   authz.Actor(r),
			At:   time.Now().UTC(),
		}
	}

	if in.Status != nil && *in.Status != cur.Status {
		err := h.Accounts.SetDisabled(ctx, uid, *in.Status == models.StatusInactive)
		if err != nil && !errors.Is(err, identity.ErrAccountNotFound) {
			h.fail(w, err, "update user status", zap.String("uid", uid))
			return
		}
	}

	updated, err := h.Users.Update(ctx, uid, upd)
	if err != nil {
		h.fail(w, err, "update user", zap.String("uid", uid))
		return
	}

	h.Audit.UserUpdated(ctx, r, uid, strings.Join(changedFields(in), ","))
	if roleChanged {
		h.Audit.AdminClaimChanged(ctx, r, uid, updated.IsAdmin)
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user": updated})
}

func changedFields(in updateInput) []string {
	var out []string
	if in.Name != nil {
		out = append(out, "name")
	}
	if in.Role != nil {
		out = append(out, "role")
	}
	if in.Status != nil {
		out = append(out, "status")
	}
	return out
}
