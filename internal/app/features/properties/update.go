// internal/app/features/properties/update.go
package properties

import (
	"net/http"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/slug"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Update applies the supplied fields to a property. Storage-hosted images
// dropped from hero or gallery are deleted first, best effort.
//
// Route: PUT /api/properties/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	oid, ok := parseID(w, r)
	if !ok {
		return
	}
	var in propertyInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := in.validate(false); err != nil {
		h.fail(w, err, "update property")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update property")
	defer cancel()

	cur, err := h.Props.Get(ctx, oid)
	if err != nil {
		h.fail(w, err, "load property", zap.String("property_id", oid.Hex()))
		return
	}

	next := cur
	in.apply(&next)
	next.Images = in.mergedImages(cur.Images)

	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		if want := slug.Make(*in.Slug); want != cur.Slug {
			s, err := h.uniqueSlug(ctx, want, oid)
			if err != nil {
				h.fail(w, err, "update property")
				return
			}
			next.Slug = s
		}
	}

	if gone := replacedURLs(cur.Images, next.Images); len(gone) > 0 {
		h.deleteImages(ctx, gone, "property_update")
	}

	next.UpdatedBy = authz.Actor(r)
	updated, err := h.Props.Replace(ctx, next)
	if err != nil {
		h.fail(w, err, "update property", zap.String("property_id", oid.Hex()))
		return
	}
	h.invalidateList(ctx)
	h.Audit.PropertyUpdated(ctx, r, oid.Hex(), strings.Join(in.suppliedFields(), ","))

	respond.JSON(w, http.StatusOK, map[string]any{"property": updated})
}
