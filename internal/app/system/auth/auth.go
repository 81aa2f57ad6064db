package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/respond"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Cookie                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// CookieName carries the ID token for both the admin pages and /api.
const CookieName = "admin-token"

// SetTokenCookie stores an ID token. Secure is on outside dev.
func SetTokenCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie expires the token cookie.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// User is the verified caller injected into r.Context().
type User struct {
	UID   string
	Email string
	Name  string
	Admin bool
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*User)
	return u, ok
}

// WithTestUser injects u directly, bypassing token verification.
func WithTestUser(r *http.Request, u *User) *http.Request {
	return withUser(r, u)
}

// Verifier is the part of identity.Provider the middleware needs.
type Verifier interface {
	VerifyIDToken(ctx context.Context, raw string) (*identity.Token, error)
}

// Middleware loads the caller from the admin-token cookie.
type Middleware struct {
	verifier Verifier
	log      *zap.Logger
}

func NewMiddleware(v Verifier, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: v, log: logger}
}

// LoadUser injects the user into context when the cookie holds a valid
// token. Invalid or missing tokens leave the request anonymous.
func (m *Middleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(CookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		tok, err := m.verifier.VerifyIDToken(ctx, c.Value)
		cancel()
		if err != nil {
			m.log.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withUser(r, &User{
			UID:   tok.UID,
			Email: tok.Email,
			Name:  tok.Name,
			Admin: tok.IsAdmin(),
		}))
	})
}

// RequireAdminAPI answers 401 JSON unless the caller holds the admin claim.
func RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok || !u.Admin {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedInAPI answers 401 JSON when there is no verified caller.
func RequireSignedInAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards HTML pages.
// If the caller is not an admin:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - other: 401 JSON.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r); ok && u.Admin {
			next.ServeHTTP(w, r)
			return
		}

		ret := url.QueryEscape(currentURI(r))

		// HTMX: full-page client redirect (no partial swap)
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/login?return="+ret)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
	})
}

// helpers

func withUser(r *http.Request, u *User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
