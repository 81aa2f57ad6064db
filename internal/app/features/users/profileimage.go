// internal/app/features/users/profileimage.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/imagepipe"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/saga"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	maxProfileUpload = imagepipe.MaxInputBytes + 1<<20
	profileMemory    = 8 << 20
)

// UploadProfileImage compresses the multipart "image" field with the
// thumbnail profile and makes it the user's photo. The previous photo is
// deleted afterwards, best effort.
//
// Route: POST /api/users/firestore/{uid}/profile-image
func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileUpload)
	if err := r.ParseMultipartForm(profileMemory); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["image"]
	if len(parts) != 1 {
		respond.Error(w, http.StatusBadRequest, "Exactly one image is required")
		return
	}
	file, err := imagepipe.FromMultipart(parts[0], imagepipe.ModTimeFromForm(r.MultipartForm, "image", 0))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, imagepipe.ErrorMessage(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "upload profile image")
	defer cancel()

	cur, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		h.fail(w, err, "load user", zap.String("uid", uid))
		return
	}

	var processed imagepipe.Processed
	err = saga.New("profile image").WithLogger(h.Log).
		Step("upload",
			func(ctx context.Context) error {
				var err error
				processed, err = h.Images.Process(ctx, file, imagepipe.Thumbnail, "users/"+uid+"/profile", nil)
				return err
			},
			func(ctx context.Context) error {
				_, err := objectstore.DeleteURL(ctx, h.Objects, processed.URL)
				return err
			}).
		Step("save photo url",
			func(ctx context.Context) error { return h.Users.SetPhotoURL(ctx, uid, processed.URL) }, nil).
		Run(ctx)
	if err != nil {
		step, _ := saga.FailedStep(err)
		if step == "upload" {
			h.Log.Warn("profile image upload failed", zap.String("uid", uid), zap.Error(err))
			status := http.StatusInternalServerError
			if errors.Is(err, imagepipe.ErrUnsupportedType) || errors.Is(err, imagepipe.ErrFileTooLarge) {
				status = http.StatusBadRequest
			}
			respond.Error(w, status, imagepipe.ErrorMessage(err))
			return
		}
		h.fail(w, err, "save profile image", zap.String("uid", uid), zap.String("step", step))
		return
	}

	if cur.PhotoURL != "" && cur.PhotoURL != processed.URL {
		h.deleteImage(ctx, cur.PhotoURL, "profile_image_replace")
	}
	h.Audit.ProfileImageUpdated(ctx, r, uid, processed.URL)
	respond.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"photoURL": processed.URL,
		"stats":    processed.Stats,
	})
}

// DeleteProfileImage removes the user's photo from storage and clears
// photo_url.
//
// Route: DELETE /api/users/firestore/{uid}/profile-image
func (h *Handler) DeleteProfileImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := uidParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete profile image")
	defer cancel()

	cur, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		h.fail(w, err, "load user", zap.String("uid", uid))
		return
	}
	if cur.PhotoURL == "" {
		respond.JSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	if err := h.Users.SetPhotoURL(ctx, uid, ""); err != nil {
		h.fail(w, err, "clear profile image", zap.String("uid", uid))
		return
	}
	h.deleteImage(ctx, cur.PhotoURL, "profile_image_delete")
	h.Audit.ProfileImageDeleted(ctx, r, uid)
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}
