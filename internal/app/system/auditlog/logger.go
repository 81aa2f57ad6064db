// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin actions (users, claims, properties, email settings).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// EventStore persists audit events. *audit.Store satisfies it.
type EventStore interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via EventStore) and structured logs (via zap).
type Logger struct {
	store  EventStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when only zap output is wanted.
func New(store EventStore, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.SubjectUID != "" {
		fields = append(fields, zap.String("subject_uid", event.SubjectUID))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers built in tests can leave it unset.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		Actor:     authz.Actor(r),
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, uid, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.SubjectUID = uid
	e.Actor = email
	l.Log(ctx, e)
}

// LoginFailed logs a rejected sign-in. eventType is one of the
// audit.EventLoginFailed* constants; uid is empty when the account is unknown.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, uid, email, reason string) {
	e := requestEvent(r, audit.CategoryAuth, eventType, false)
	e.SubjectUID = uid
	e.Actor = email
	e.FailureReason = reason
	l.Log(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLogout, true)
	if _, uid, _, ok := authz.UserCtx(r); ok {
		e.SubjectUID = uid
	}
	l.Log(ctx, e)
}

// --- Admin Events: Users ---

// UserCreated logs the creation of an account and its user record.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, uid, email string, admin bool) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserCreated, true)
	e.SubjectUID = uid
	e.Details = map[string]string{"email": email, "admin": strconv.FormatBool(admin)}
	l.Log(ctx, e)
}

// UserUpdated logs a user record update.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, uid, fieldsChanged string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserUpdated, true)
	e.SubjectUID = uid
	e.Details = map[string]string{"fields_changed": fieldsChanged}
	l.Log(ctx, e)
}

// UserDeleted logs removal of both the account and the user record.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, uid string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserDeleted, true)
	e.SubjectUID = uid
	l.Log(ctx, e)
}

// UserDeletePartial logs a delete where one side could not be removed.
func (l *Logger) UserDeletePartial(ctx context.Context, r *http.Request, uid string, accountDeleted, recordDeleted bool, reason string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserDeletePartial, false)
	e.SubjectUID = uid
	e.FailureReason = reason
	e.Details = map[string]string{
		"account_deleted": strconv.FormatBool(accountDeleted),
		"record_deleted":  strconv.FormatBool(recordDeleted),
	}
	l.Log(ctx, e)
}

// AdminClaimChanged logs granting or revoking the admin claim.
func (l *Logger) AdminClaimChanged(ctx context.Context, r *http.Request, uid string, admin bool) {
	eventType := audit.EventAdminClaimRevoked
	if admin {
		eventType = audit.EventAdminClaimGranted
	}
	e := requestEvent(r, audit.CategoryAdmin, eventType, true)
	e.SubjectUID = uid
	l.Log(ctx, e)
}

// ProfileImageUpdated logs a new profile image for uid.
func (l *Logger) ProfileImageUpdated(ctx context.Context, r *http.Request, uid, url string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventProfileImageUpdated, true)
	e.SubjectUID = uid
	e.Details = map[string]string{"url": url}
	l.Log(ctx, e)
}

// ProfileImageDeleted logs removal of uid's profile image.
func (l *Logger) ProfileImageDeleted(ctx context.Context, r *http.Request, uid string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventProfileImageDeleted, true)
	e.SubjectUID = uid
	l.Log(ctx, e)
}

// --- Admin Events: Properties ---

// PropertyCreated logs a new listing.
func (l *Logger) PropertyCreated(ctx context.Context, r *http.Request, id, title string) {
	l.propertyEvent(ctx, r, audit.EventPropertyCreated, id, map[string]string{"title": title})
}

// PropertyUpdated logs a listing update.
func (l *Logger) PropertyUpdated(ctx context.Context, r *http.Request, id, fieldsChanged string) {
	l.propertyEvent(ctx, r, audit.EventPropertyUpdated, id, map[string]string{"fields_changed": fieldsChanged})
}

// PropertyDeleted logs a listing removal and how many of its images were cleaned up.
func (l *Logger) PropertyDeleted(ctx context.Context, r *http.Request, id, title string, imagesDeleted, imagesFailed int) {
	l.propertyEvent(ctx, r, audit.EventPropertyDeleted, id, map[string]string{
		"title":          title,
		"images_deleted": strconv.Itoa(imagesDeleted),
		"images_failed":  strconv.Itoa(imagesFailed),
	})
}

// PropertyImagesAdded logs a batch upload attached to a listing.
func (l *Logger) PropertyImagesAdded(ctx context.Context, r *http.Request, id string, uploaded, failed int) {
	l.propertyEvent(ctx, r, audit.EventPropertyImagesAdded, id, map[string]string{
		"uploaded": strconv.Itoa(uploaded),
		"failed":   strconv.Itoa(failed),
	})
}

func (l *Logger) propertyEvent(ctx context.Context, r *http.Request, eventType, id string, details map[string]string) {
	e := requestEvent(r, audit.CategoryAdmin, eventType, true)
	e.Target = id
	e.Details = details
	l.Log(ctx, e)
}

// --- Admin Events: Settings ---

// EmailSettingsUpdated logs a change to the contact-form recipients.
func (l *Logger) EmailSettingsUpdated(ctx context.Context, r *http.Request, recipients int) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventEmailSettingsUpdated, true)
	e.Target = "email_settings"
	e.Details = map[string]string{"recipients": strconv.Itoa(recipients)}
	l.Log(ctx, e)
}
