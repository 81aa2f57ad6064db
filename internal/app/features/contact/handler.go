// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/inputval"
	"github.com/dalemusser/rentalhub/internal/app/system/mailer"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/sanitize"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/rentalhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const maxBodyBytes = 32 << 10

// Settings supplies the notification recipients.
type Settings interface {
	Get(ctx context.Context) (models.EmailSettings, error)
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

type Handler struct {
	Settings Settings
	Mail     Sender
	Limiter  *ratelimit.Limiter
	Log      *zap.Logger
}

// NewHandler wires the contact page and form. limiter may be nil.
func NewHandler(settings Settings, mail Sender, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{Settings: settings, Mail: mail, Limiter: limiter, Log: logger}
}

type pageData struct {
	viewdata.BaseVM
}

// ServeContact renders the contact page. The form posts to /api/contact.
//
// Route: GET /contact
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "contact", pageData{BaseVM: viewdata.NewBaseVM(r, "Contact us")})
}

type submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (s *submission) clean() {
	s.Name = normalize.Name(sanitize.Text(s.Name))
	s.Email = normalize.Email(s.Email)
	s.Phone = sanitize.Text(s.Phone)
	s.Message = sanitize.Text(s.Message)
}

func (s submission) validate() error {
	errs := inputval.New()
	errs.Required("name", s.Name)
	errs.MaxLen("name", s.Name, 100)
	errs.Required("email", s.Email)
	if s.Email != "" {
		errs.Email("email", s.Email)
	}
	errs.MaxLen("phone", s.Phone, 40)
	errs.Required("message", s.Message)
	errs.MaxLen("message", s.Message, 5000)
	return errs.Err()
}

// SubmitContact validates the form and mails it to the configured recipients.
//
// Route: POST /api/contact
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in submission
	if err := respond.Decode(w, r, &in, maxBodyBytes); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	in.clean()
	if err := in.validate(); err != nil {
		ve, _ := inputval.As(err)
		respond.ErrorDetails(w, http.StatusBadRequest, "Validation failed", ve.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contact submit")
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.Log.Error("load email settings failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	if len(settings.Recipients) == 0 {
		h.Log.Error("contact form has no recipients configured")
		respond.Error(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	email := mailer.BuildContactEmail(settings.Recipients, mailer.ContactEmailData{
		SiteName:    viewdata.SiteName(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		SubmittedAt: time.Now(),
	})
	if err := h.Mail.Send(ctx, email); err != nil {
		h.Log.Error("send contact email failed", zap.String("from", in.Email), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	h.Log.Info("contact form submitted", zap.String("from", in.Email), zap.Int("recipients", len(settings.Recipients)))
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}
