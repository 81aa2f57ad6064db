// internal/app/features/properties/images.go
package properties

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/imagepipe"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	maxUploadBytes  = 200 << 20
	multipartMemory = 32 << 20
	maxGalleryFiles = 20
)

type uploadResult struct {
	Field string           `json:"field"` // hero | gallery
	Name  string           `json:"name"`
	URL   string           `json:"url,omitempty"`
	Stats *imagepipe.Stats `json:"stats,omitempty"`
	Error string           `json:"error,omitempty"`
}

// UploadImages compresses and uploads a hero image and/or gallery images,
// one file at a time, and attaches the successful ones to the property.
// A replaced hero image is deleted from storage, best effort.
//
// Route: POST /api/properties/{id}/images
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	oid, ok := parseID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	heroParts := r.MultipartForm.File["hero"]
	galleryParts := r.MultipartForm.File["gallery"]
	switch {
	case len(heroParts) == 0 && len(galleryParts) == 0:
		respond.Error(w, http.StatusBadRequest, "No images provided")
		return
	case len(heroParts) > 1:
		respond.Error(w, http.StatusBadRequest, "Only one hero image is allowed")
		return
	case len(galleryParts) > maxGalleryFiles:
		respond.Error(w, http.StatusBadRequest, "Too many gallery images")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "upload property images")
	defer cancel()

	cur, err := h.Props.Get(ctx, oid)
	if err != nil {
		h.fail(w, err, "load property", zap.String("property_id", oid.Hex()))
		return
	}

	folder := "properties/" + oid.Hex()
	var results []uploadResult
	images := cur.Images
	if images.Gallery == nil {
		images.Gallery = []string{}
	}

	run := func(field string, parts []imagepipe.File, opts imagepipe.Options) []imagepipe.BatchResult {
		batch := h.Images.ProcessBatch(ctx, parts, opts, folder+"/"+field, func(p imagepipe.Progress) {
			h.Log.Debug("image progress",
				zap.String("property_id", oid.Hex()),
				zap.String("file", p.Name),
				zap.String("stage", p.Stage),
				zap.Int("percent", p.Percent))
		})
		for _, br := range batch {
			res := uploadResult{Field: field, Name: br.Name}
			if br.Err != nil {
				res.Error = imagepipe.ErrorMessage(br.Err)
				h.Log.Warn("property image failed", zap.String("property_id", oid.Hex()), zap.String("file", br.Name), zap.Error(br.Err))
			} else {
				stats := br.Stats
				res.URL = br.URL
				res.Stats = &stats
			}
			results = append(results, res)
		}
		return batch
	}

	var replacedHero string
	var fresh []string
	if len(heroParts) == 1 {
		files, bad := readParts(r, "hero", heroParts)
		results = append(results, bad...)
		for _, br := range run("hero", files, imagepipe.Hero) {
			if br.Err == nil {
				replacedHero = images.Hero
				images.Hero = br.URL
				fresh = append(fresh, br.URL)
			}
		}
	}
	if len(galleryParts) > 0 {
		files, bad := readParts(r, "gallery", galleryParts)
		results = append(results, bad...)
		for _, br := range run("gallery", files, imagepipe.Property) {
			if br.Err == nil {
				images.Gallery = append(images.Gallery, br.URL)
				fresh = append(fresh, br.URL)
			}
		}
	}

	uploaded, failed := 0, 0
	for _, res := range results {
		if res.Error == "" {
			uploaded++
		} else {
			failed++
		}
	}

	if uploaded > 0 {
		updated, err := h.Props.SetImages(ctx, oid, images, authz.Actor(r))
		if err != nil {
			// Nothing references the new uploads; remove them, recording
			// any that cannot be removed for the sweeper.
			h.deleteImages(context.WithoutCancel(ctx), fresh, "property_images_rollback")
			h.fail(w, err, "save property images", zap.String("property_id", oid.Hex()))
			return
		}
		images = updated.Images
		if replacedHero != "" {
			h.deleteImages(ctx, []string{replacedHero}, "property_hero_replace")
		}
		h.invalidateList(ctx)
	}
	h.Audit.PropertyImagesAdded(ctx, r, oid.Hex(), uploaded, failed)

	status := http.StatusOK
	if uploaded == 0 {
		status = http.StatusUnprocessableEntity
	}
	respond.JSON(w, status, map[string]any{
		"results":  results,
		"images":   images,
		"uploaded": uploaded,
		"failed":   failed,
	})
}

// readParts loads multipart files. Parts that cannot be read become failed results.
func readParts(r *http.Request, field string, parts []*multipart.FileHeader) ([]imagepipe.File, []uploadResult) {
	var files []imagepipe.File
	var bad []uploadResult
	for i, fh := range parts {
		f, err := imagepipe.FromMultipart(fh, imagepipe.ModTimeFromForm(r.MultipartForm, field, i))
		if err != nil {
			bad = append(bad, uploadResult{Field: field, Name: fh.Filename, Error: "Could not read file"})
			continue
		}
		files = append(files, f)
	}
	return files, bad
}
