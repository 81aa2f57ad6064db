// internal/app/features/emailsettings/handler.go
package emailsettings

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"go.uber.org/zap"
)

const (
	maxBodyBytes  = 16 << 10
	maxRecipients = 20
)

// Store reads and writes the singleton email settings document.
type Store interface {
	Get(ctx context.Context) (models.EmailSettings, error)
	Save(ctx context.Context, recipients []string, by string) (models.EmailSettings, error)
}

type Handler struct {
	Settings Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(settings Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Settings: settings, Audit: audit, Log: logger}
}

// GetSettings returns the contact-form recipients.
//
// Route: GET /api/settings/email
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get email settings")
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.Log.Error("get email settings failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to load email settings")
		return
	}
	respond.JSON(w, http.StatusOK, settings)
}

type updateInput struct {
	Recipients []string `json:"recipients"`
}

// normalize lowercases, trims and de-duplicates recipients, dropping blanks.
func (in *updateInput) normalize() {
	seen := make(map[string]bool, len(in.Recipients))
	out := make([]string, 0, len(in.Recipients))
	for _, addr := range in.Recipients {
		addr = normalize.Email(addr)
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	in.Recipients = out
}

func (in updateInput) validate() error {
	errs := inputval.New()
	switch n := len(in.Recipients); {
	case n == 0:
		errs.Add("recipients", "at least one recipient is required")
	case n > maxRecipients:
		errs.Add("recipients", fmt.Sprintf("at most %d recipients are allowed", maxRecipients))
	}
	for i, addr := range in.Recipients {
		errs.Email(fmt.Sprintf("recipients[%d]", i), addr)
	}
	return errs.Err()
}

// UpdateSettings replaces the recipient list.
//
// Route: PUT /api/settings/email
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	in.normalize()
	if err := in.validate(); err != nil {
		ve, _ := inputval.As(err)
		respond.ErrorDetails(w, http.StatusBadRequest, "Validation failed", ve.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "save email settings")
	defer cancel()

	settings, err := h.Settings.Save(ctx, in.Recipients, authz.Actor(r))
	if err != nil {
		h.Log.Error("save email settings failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to save email settings")
		return
	}

	h.Audit.EmailSettingsUpdated(r.Context(), r, len(settings.Recipients))
	respond.JSON(w, http.StatusOK, settings)
}
