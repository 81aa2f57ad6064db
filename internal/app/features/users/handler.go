// internal/app/features/users/handler.go
package users

import (
	"context"

	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/imagepipe"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// Accounts is the part of identity.Provider the user routes need.
type Accounts interface {
	ListUsers(ctx context.Context) ([]identity.AccountInfo, error)
	CreateUser(ctx context.Context, in identity.NewAccount) (identity.AccountInfo, error)
	DeleteUser(ctx context.Context, uid string) error
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
}

// Store is the user-document store.
type Store interface {
	List(ctx context.Context) ([]models.User, error)
	GetByUID(ctx context.Context, uid string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, uid string, upd userstore.Update) (models.User, error)
	SetAdmin(ctx context.Context, uid string, admin bool, by string) (models.User, error)
	SetPhotoURL(ctx context.Context, uid, url string) error
	Delete(ctx context.Context, uid string) (int64, error)
}

// OrphanRecorder remembers storage objects whose delete failed.
type OrphanRecorder interface {
	Record(ctx context.Context, key, url, reason string, cause error) error
}

// ImageProcessor compresses and uploads one image.
type ImageProcessor interface {
	Process(ctx context.Context, f imagepipe.File, opts imagepipe.Options, folder string, progress func(int)) (imagepipe.Processed, error)
}

type Handler struct {
	Accounts Accounts
	Users    Store
	Objects  objectstore.Store
	Orphans  OrphanRecorder
	Images   ImageProcessor
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler wires the user routes. orphans may be nil.
func NewHandler(accounts Accounts, users Store, objects objectstore.Store, orphans OrphanRecorder, images ImageProcessor, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts: accounts,
		Users:    users,
		Objects:  objects,
		Orphans:  orphans,
		Images:   images,
		Audit:    audit,
		Log:      logger,
	}
}

// adminClaims is the custom-claims map for the admin flag. Non-admins
// carry no claims at all.
func adminClaims(admin bool) map[string]any {
	if !admin {
		return nil
	}
	return map[string]any{"admin": true}
}
