// internal/app/features/admin/handler.go
package admin

import (
	"context"

	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.uber.org/zap"
)

// UserStore is the part of the user store the admin pages read.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
}

// PropertyStore is the part of the property store the admin pages read.
type PropertyStore interface {
	List(ctx context.Context) ([]models.Property, error)
	Count(ctx context.Context, status string) (int64, error)
}

// Handler serves the server-rendered admin screens. Writes go through the
// JSON API; these pages only read.
type Handler struct {
	Users      UserStore
	Properties PropertyStore
	Log        *zap.Logger
}

func NewHandler(users UserStore, props PropertyStore, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Properties: props, Log: logger}
}
