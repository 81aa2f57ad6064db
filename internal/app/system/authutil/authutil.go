// Package authutil is the admin sign-in flow shared by the JSON login
// endpoint and the HTML login form: rate limit, password check, admin
// claim check, audit.
package authutil

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/normalize"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// ErrNotAdmin is returned when the password is right but the account
// lacks the admin claim.
var ErrNotAdmin = errors.New("authutil: account is not an admin")

// RateLimitError carries the limiter's explanation.
type RateLimitError struct {
	Reason string
}

func (e *RateLimitError) Error() string { return "authutil: rate limited: " + e.Reason }

// Authenticator is the part of identity.Provider sign-in needs.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, identity.AccountInfo, error)
	GetUserByEmail(ctx context.Context, email string) (identity.AccountInfo, error)
	TokenTTL() time.Duration
}

// Session is a successful admin sign-in.
type Session struct {
	Token   string
	TTL     time.Duration
	Account identity.AccountInfo
}

// SignIn checks admin credentials.
type SignIn struct {
	Auth    Authenticator
	Limiter *ratelimit.LoginLimiter // nil disables rate limiting
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// Attempt signs in email/password and requires the admin claim. Every
// outcome is audited. Errors are *RateLimitError, ErrNotAdmin,
// identity.ErrInvalidCredentials, identity.ErrAccountDisabled, or an
// unexpected failure.
func (s *SignIn) Attempt(ctx context.Context, r *http.Request, email, password string) (Session, error) {
	email = normalize.Email(email)

	if s.Limiter != nil {
		if ok, reason := s.Limiter.Check(r, email); !ok {
			s.Audit.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, "", email, reason)
			return Session{}, &RateLimitError{Reason: reason}
		}
	}

	token, info, err := s.Auth.SignIn(ctx, email, password)
	switch {
	case err == nil:
	case errors.Is(err, identity.ErrInvalidCredentials):
		event, uid := audit.EventLoginFailedUserNotFound, ""
		if acc, lerr := s.Auth.GetUserByEmail(ctx, email); lerr == nil {
			event, uid = audit.EventLoginFailedWrongPassword, acc.UID
		}
		s.Audit.LoginFailed(ctx, r, event, uid, email, "invalid credentials")
		return Session{}, err
	case errors.Is(err, identity.ErrAccountDisabled):
		s.Audit.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, "", email, "account disabled")
		return Session{}, err
	default:
		s.Log.Error("sign in failed", zap.String("email", email), zap.Error(err))
		return Session{}, err
	}

	if !info.Admin {
		s.Audit.LoginFailed(ctx, r, audit.EventLoginFailedNotAdmin, info.UID, email, "admin claim missing")
		return Session{}, ErrNotAdmin
	}

	if s.Limiter != nil {
		s.Limiter.ResetEmail(email)
	}
	s.Audit.LoginSuccess(ctx, r, info.UID, info.Email)
	return Session{Token: token, TTL: s.Auth.TokenTTL(), Account: info}, nil
}

// Message is the text shown to the person signing in. It never reveals
// whether the email exists.
func Message(err error) string {
	var rl *RateLimitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rl):
		return rl.Reason
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, identity.ErrAccountDisabled):
		return "This account is disabled. Please contact an administrator."
	case errors.Is(err, ErrNotAdmin):
		return "This account does not have admin access."
	default:
		return "Sign in failed. Please try again."
	}
}

// Status maps an Attempt error to an HTTP status.
func Status(err error) int {
	var rl *RateLimitError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &rl):
		return http.StatusTooManyRequests
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrAccountDisabled):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAdmin):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
