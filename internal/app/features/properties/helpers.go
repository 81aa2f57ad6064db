// internal/app/features/properties/helpers.go
package properties

import (
	"context"
	"errors"
	"net/http"

	propertystore "github.com/dalemusser/rentalhub/internal/app/store/properties"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func parseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid property id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// fail maps err to a status: validation 400, missing 404, anything else 500.
func (h *Handler) fail(w http.ResponseWriter, err error, op string, fields ...zap.Field) {
	if ve, ok := inputval.As(err); ok {
		respond.ErrorDetails(w, http.StatusBadRequest, "Validation failed", ve.Fields())
		return
	}
	if errors.Is(err, propertystore.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Property not found")
		return
	}
	h.Log.Error(op+" failed", append(fields, zap.Error(err))...)
	respond.Error(w, http.StatusInternalServerError, "Failed to "+op)
}

// deleteImages best-effort deletes every URL the object store owns.
// Failures are logged and recorded as orphans; they never abort the caller.
func (h *Handler) deleteImages(ctx context.Context, urls []string, reason string) (deleted, failed int) {
	for _, u := range urls {
		attempted, err := objectstore.DeleteURL(ctx, h.Objects, u)
		if !attempted {
			continue
		}
		if err == nil || errors.Is(err, objectstore.ErrNotFound) {
			deleted++
			continue
		}
		failed++
		h.Log.Warn("property image delete failed", zap.String("url", u), zap.String("reason", reason), zap.Error(err))
		h.recordOrphan(ctx, u, reason, err)
	}
	return deleted, failed
}

func (h *Handler) recordOrphan(ctx context.Context, url, reason string, cause error) {
	if h.Orphans == nil {
		return
	}
	key, ok := h.Objects.KeyFromURL(url)
	if !ok {
		return
	}
	if err := h.Orphans.Record(ctx, key, url, reason, cause); err != nil {
		h.Log.Error("record storage orphan failed", zap.String("key", key), zap.Error(err))
	}
}
