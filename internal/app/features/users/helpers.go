// internal/app/features/users/helpers.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/rentalhub/internal/app/store/users"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func uidParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid := strings.TrimSpace(chi.URLParam(r, "uid"))
	if uid == "" {
		respond.Error(w, http.StatusBadRequest, "User id is required")
		return "", false
	}
	return uid, true
}

// fail maps err to a status: validation 400, missing 404, anything else 500.
func (h *Handler) fail(w http.ResponseWriter, err error, op string, fields ...zap.Field) {
	if ve, ok := inputval.As(err); ok {
		respond.ErrorDetails(w, http.StatusBadRequest, "Validation failed", ve.Fields())
		return
	}
	if errors.Is(err, userstore.ErrNotFound) || errors.Is(err, identity.ErrAccountNotFound) {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}
	h.Log.Error(op+" failed", append(fields, zap.Error(err))...)
	respond.Error(w, http.StatusInternalServerError, "Failed to "+op)
}

// deleteImage best-effort removes a storage-hosted image. A failed delete
// is logged and recorded as an orphan.
func (h *Handler) deleteImage(ctx context.Context, url, reason string) {
	if url == "" {
		return
	}
	attempted, err := objectstore.DeleteURL(ctx, h.Objects, url)
	if !attempted || err == nil || errors.Is(err, objectstore.ErrNotFound) {
		return
	}
	h.Log.Warn("profile image delete failed", zap.String("url", url), zap.String("reason", reason), zap.Error(err))
	if h.Orphans == nil {
		return
	}
	key, ok := h.Objects.KeyFromURL(url)
	if !ok {
		return
	}
	if rerr := h.Orphans.Record(ctx, key, url, reason, err); rerr != nil {
		h.Log.Error("record storage orphan failed", zap.String("key", key), zap.Error(rerr))
	}
}
