package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/rentalhub/internal/app/features/login"
	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/app/system/authutil"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *login.Handler {
	t.Helper()
	logger := zap.NewNop()
	p := testutil.NewProvider(testutil.NewAccountStore())
	ctx := context.Background()
	admin, err := p.CreateUser(ctx, identity.NewAccount{Email: "admin@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetCustomClaims(ctx, admin.UID, map[string]any{"admin": true}); err != nil {
		t.Fatal(err)
	}

	flashes, err := auth.NewFlashes("test-session-key-for-testing-only-0123", false, logger)
	if err != nil {
		t.Fatalf("NewFlashes failed: %v", err)
	}
	return login.NewHandler(&authutil.SignIn{Auth: p, Log: logger}, flashes, false, logger)
}

func postLogin(h *login.Handler, form url.Values, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleLoginPost_Success(t *testing.T) {
	h := newTestHandler(t)
	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"correct-horse"}}, "/login")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location: got %q, want %q", loc, "/admin")
	}
	if c := cookieNamed(rec, auth.CookieName); c == nil || c.Value == "" {
		t.Error("expected admin-token cookie to be set")
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	h := newTestHandler(t)
	form := url.Values{"email": {"admin@example.com"}, "password": {"correct-horse"}, "return": {"/admin/users?page=2"}}
	rec := postLogin(h, form, "/login")

	if loc := rec.Header().Get("Location"); loc != "/admin/users?page=2" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestHandleLoginPost_RejectsOffsiteReturn(t *testing.T) {
	h := newTestHandler(t)
	form := url.Values{"email": {"admin@example.com"}, "password": {"correct-horse"}, "return": {"https://evil.example/admin"}}
	rec := postLogin(h, form, "/login")

	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location: got %q, want /admin", loc)
	}
}

func TestHandleLoginPost_WrongPasswordFlashes(t *testing.T) {
	h := newTestHandler(t)
	rec := postLogin(h, url.Values{"email": {"admin@example.com"}, "password": {"nope"}}, "/login")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?") || !strings.Contains(loc, "email=admin%40example.com") {
		t.Errorf("Location: got %q", loc)
	}
	if cookieNamed(rec, auth.CookieName) != nil {
		t.Error("no token cookie on failure")
	}
	flash := cookieNamed(rec, auth.FlashSessionName)
	if flash == nil {
		t.Fatal("expected flash cookie")
	}

	req := httptest.NewRequest("GET", "/login", nil)
	req.AddCookie(flash)
	if got := h.Flashes.Pop(httptest.NewRecorder(), req); len(got) != 1 || got[0] != "Invalid email or password." {
		t.Errorf("flash = %v", got)
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	h := newTestHandler(t)
	rec := postLogin(h, url.Values{"email": {""}}, "/login")
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestServeLogin_AdminRedirects(t *testing.T) {
	h := newTestHandler(t)
	req := testutil.WithUser(httptest.NewRequest("GET", "/login?return=/admin/properties", nil), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/properties" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
