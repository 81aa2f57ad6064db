package authapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/features/authapi"
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/app/system/authutil"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/rentalhub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*authapi.Handler, *identity.Provider) {
	t.Helper()
	p := testutil.NewProvider(testutil.NewAccountStore())
	ctx := context.Background()
	admin, err := p.CreateUser(ctx, identity.NewAccount{Email: "admin@example.com", Password: "correct-horse", DisplayName: "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetCustomClaims(ctx, admin.UID, map[string]any{"admin": true}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.CreateUser(ctx, identity.NewAccount{Email: "guest@example.com", Password: "correct-horse"}); err != nil {
		t.Fatal(err)
	}

	limiter := ratelimit.NewLoginLimiter(3, time.Minute, 10, time.Minute)
	t.Cleanup(limiter.Stop)
	signIn := &authutil.SignIn{Auth: p, Limiter: limiter, Log: zap.NewNop()}
	return authapi.NewHandler(signIn, nil, true, zap.NewNop()), p
}

func tokenCookie(rec *testutil.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_SetsVerifiableCookie(t *testing.T) {
	h, p := newHandler(t)

	rec := testutil.NewRecorder()
	h.Login(rec, testutil.NewJSONRequest("POST", "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "correct-horse",
	}))
	rec.AssertStatus(t, http.StatusOK)

	c := tokenCookie(rec)
	if c == nil || c.Value == "" {
		t.Fatal("admin-token cookie not set")
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie flags: %+v", c)
	}
	tok, err := p.VerifyIDToken(context.Background(), c.Value)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if !tok.IsAdmin() {
		t.Error("token should carry the admin claim")
	}
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"wrong password", map[string]string{"email": "admin@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"not admin", map[string]string{"email": "guest@example.com", "password": "correct-horse"}, http.StatusForbidden},
		{"missing password", map[string]string{"email": "admin@example.com"}, http.StatusBadRequest},
		{"bad json", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t)
			rec := testutil.NewRecorder()
			h.Login(rec, testutil.NewJSONRequest("POST", "/api/auth/login", tt.body))
			rec.AssertStatus(t, tt.status)
			if tokenCookie(rec) != nil {
				t.Error("no cookie should be set")
			}
		})
	}
}

func TestLogin_RateLimitedPerIP(t *testing.T) {
	h, _ := newHandler(t)
	var last *testutil.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = testutil.NewRecorder()
		h.Login(last, testutil.NewJSONRequest("POST", "/api/auth/login", map[string]string{
			"email": "admin@example.com", "password": "nope",
		}))
	}
	last.AssertStatus(t, http.StatusTooManyRequests)
}

func TestLogout_ClearsCookie(t *testing.T) {
	h, _ := newHandler(t)
	rec := testutil.NewRecorder()
	h.Logout(rec, testutil.NewAdminRequest("POST", "/api/auth/logout", nil))
	rec.AssertStatus(t, http.StatusOK)

	c := tokenCookie(rec)
	if c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie should be expired: %+v", c)
	}
}

func TestMe(t *testing.T) {
	h, _ := newHandler(t)
	router := authapi.Routes(h)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/me"), testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		User struct {
			Email string `json:"email"`
			Admin bool   `json:"admin"`
		} `json:"user"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.User.Email != "admin@test.com" || !resp.User.Admin {
		t.Errorf("me: %+v", resp.User)
	}
}
