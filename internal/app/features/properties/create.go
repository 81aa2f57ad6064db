// internal/app/features/properties/create.go
package properties

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/slug"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Create validates and inserts a property. The slug comes from the payload
// or the title; a taken slug gets a -<unix-millis> suffix.
//
// Route: POST /api/properties
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in propertyInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := in.validate(true); err != nil {
		h.fail(w, err, "create property")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create property")
	defer cancel()

	p := in.newProperty()
	p.Images = in.mergedImages(p.Images)

	source := p.Title
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		source = *in.Slug
	}
	s, err := h.uniqueSlug(ctx, slug.Make(source), primitive.NilObjectID)
	if err != nil {
		h.fail(w, err, "create property")
		return
	}
	p.Slug = s

	actor := authz.Actor(r)
	p.CreatedBy = actor
	p.UpdatedBy = actor

	created, err := h.Props.Create(ctx, p)
	if err != nil {
		h.fail(w, err, "create property", zap.String("slug", p.Slug))
		return
	}
	h.invalidateList(ctx)
	h.Audit.PropertyCreated(ctx, r, created.ID.Hex(), created.Title)

	respond.JSON(w, http.StatusCreated, map[string]any{"property": created})
}

// uniqueSlug returns base, or base with a timestamp suffix when another
// property already uses it.
func (h *Handler) uniqueSlug(ctx context.Context, base string, self primitive.ObjectID) (string, error) {
	if base == "" {
		base = "property"
	}
	taken, err := h.Props.SlugExists(ctx, base, self)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	return slug.WithSuffix(base, h.now()), nil
}
