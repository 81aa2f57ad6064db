// internal/app/features/users/create.go
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/saga"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (in *createInput) normalize() {
	in.Email = normalize.Email(in.Email)
	in.Name = normalize.Name(in.Name)
	in.Role = normalize.Role(in.Role)
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		in.Status = models.StatusActive
	}
}

func (in createInput) validate() error {
	errs := inputval.New()
	errs.Required("email", in.Email)
	errs.Email("email", in.Email)
	if len(in.Password) < identity.MinPasswordLength {
		errs.Add("password", "must be at least 6 characters")
	}
	errs.Required("name", in.Name)
	errs.MaxLen("name", in.Name, 100)
	errs.OneOf("role", in.Role, models.RoleUser, models.RoleAdmin)
	errs.OneOf("status", in.Status, models.StatusActive, models.StatusInactive, models.StatusPending)
	return errs.Err()
}

// CreateUser signs up a user on behalf of an admin: identity account,
// then claims, then the user document. A failure after the account exists
// deletes the account again.
//
// Route: POST /api/users/firestore
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	in.normalize()
	if err := in.validate(); err != nil {
		h.fail(w, err, "create user")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create user")
	defer cancel()

	admin := in.Role == models.RoleAdmin
	actor := authz.Actor(r)
	var account identity.AccountInfo
	var created models.User

	err := saga.New("create user").WithLogger(h.Log).
		Step("create account",
			func(ctx context.Context) error {
				var err error
				account, err = h.Accounts.CreateUser(ctx, identity.NewAccount{
					Email:       in.Email,
					Password:    in.Password,
					DisplayName: in.Name,
					Disabled:    in.Status == models.StatusInactive,
				})
				return err
			},
			func(ctx context.Context) error { return h.Accounts.DeleteUser(ctx, account.UID) }).
		Step("set claims",
			func(ctx context.Context) error {
				if !admin {
					return nil
				}
				return h.Accounts.SetCustomClaims(ctx, account.UID, adminClaims(true))
			}, nil).
		Step("create document",
			func(ctx context.Context) error {
				var err error
				created, err = h.Users.Create(ctx, models.User{
					UID:      account.UID,
					Email:    account.Email,
					Name:     in.Name,
					Role:     in.Role,
					Status:   in.Status,
					Metadata: &models.UserMetadata{CreatedBy: actor},
				})
				return err
			}, nil).
		Run(ctx)

	switch {
	case err == nil:
	case errors.Is(err, identity.ErrEmailExists), errors.Is(err, userstore.ErrDuplicateEmail):
		respond.ErrorDetails(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"email": "is already registered"})
		return
	case errors.Is(err, identity.ErrWeakPassword):
		respond.ErrorDetails(w, http.StatusBadRequest, "Validation failed",
			map[string]string{"password": "must be at least 6 characters"})
		return
	default:
		step, _ := saga.FailedStep(err)
		h.Log.Error("create user failed",
			zap.String("email", in.Email),
			zap.String("step", step),
			zap.Bool("rolled_back", rolledBack(err)),
			zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.Audit.UserCreated(ctx, r, created.UID, created.Email, admin)
	respond.JSON(w, http.StatusCreated, map[string]any{"user": created})
}

func rolledBack(err error) bool {
	var se *saga.Error
	if errors.As(err, &se) {
		return se.RolledBack()
	}
	return true
}
