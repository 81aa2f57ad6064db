// internal/app/features/properties/delete.go
package properties

import (
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type deleteResponse struct {
	Success       bool `json:"success"`
	ImagesDeleted int  `json:"imagesDeleted"`
	ImagesFailed  int  `json:"imagesFailed"`
}

// Delete removes a property. Deletion is attempted for every storage-hosted
// hero and gallery image; the document is deleted whatever those return.
//
// Route: DELETE /api/properties/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	oid, ok := parseID(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete property")
	defer cancel()

	p, err := h.Props.Get(ctx, oid)
	if err != nil {
		h.fail(w, err, "load property", zap.String("property_id", oid.Hex()))
		return
	}

	deleted, failed := h.deleteImages(ctx, p.Images.All(), "property_delete")

	if _, err := h.Props.Delete(ctx, oid); err != nil {
		h.fail(w, err, "delete property", zap.String("property_id", oid.Hex()))
		return
	}
	h.invalidateList(ctx)
	h.Audit.PropertyDeleted(ctx, r, oid.Hex(), p.Title, deleted, failed)

	respond.JSON(w, http.StatusOK, deleteResponse{Success: true, ImagesDeleted: deleted, ImagesFailed: failed})
}
