// internal/app/features/properties/list.go
package properties

import (
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.uber.org/zap"
)

type listResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

// List returns every property, newest first.
//
// Route: GET /api/properties
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list properties")
	defer cancel()

	var cached listResponse
	if hit, err := h.Cache.Get(ctx, listCacheKey, &cached); err != nil {
		h.Log.Warn("property list cache read failed", zap.Error(err))
	} else if hit {
		respond.JSON(w, http.StatusOK, cached)
		return
	}

	props, err := h.Props.List(ctx)
	if err != nil {
		h.fail(w, err, "list properties")
		return
	}
	resp := listResponse{Properties: props, Count: len(props)}
	if err := h.Cache.Set(ctx, listCacheKey, resp, listCacheTTL); err != nil {
		h.Log.Warn("property list cache write failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, resp)
}

// Get returns one property.
//
// Route: GET /api/properties/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	oid, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get property")
	defer cancel()

	p, err := h.Props.Get(ctx, oid)
	if err != nil {
		h.fail(w, err, "load property", zap.String("property_id", oid.Hex()))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"property": p})
}
