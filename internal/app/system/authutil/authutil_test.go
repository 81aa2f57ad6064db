package authutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/rentalhub/internal/app/store/audit"
	"github.com/dalemusser/rentalhub/internal/app/system/auditlog"
	"github.com/dalemusser/rentalhub/internal/app/system/identity"
	"github.com/dalemusser/rentalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/rentalhub/internal/testutil"
	"go.uber.org/zap"
)

type events struct {
	got []audit.Event
}

func (e *events) Log(_ context.Context, ev audit.Event) error {
	e.got = append(e.got, ev)
	return nil
}

func (e *events) last() string {
	if len(e.got) == 0 {
		return ""
	}
	return e.got[len(e.got)-1].EventType
}

func setup(t *testing.T, limiter *ratelimit.LoginLimiter) (*SignIn, *identity.Provider, *events) {
	t.Helper()
	p := testutil.NewProvider(testutil.NewAccountStore())
	ctx := context.Background()

	admin, err := p.CreateUser(ctx, identity.NewAccount{Email: "admin@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetCustomClaims(ctx, admin.UID, map[string]any{"admin": true}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.CreateUser(ctx, identity.NewAccount{Email: "guest@example.com", Password: "correct-horse"}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.CreateUser(ctx, identity.NewAccount{Email: "off@example.com", Password: "correct-horse", Disabled: true}); err != nil {
		t.Fatal(err)
	}

	ev := &events{}
	s := &SignIn{
		Auth:    p,
		Limiter: limiter,
		Audit:   auditlog.New(ev, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"}),
		Log:     zap.NewNop(),
	}
	return s, p, ev
}

func req() *http.Request {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "203.0.113.9:4000"
	return r
}

func TestAttempt_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		event    string
		status   int
	}{
		{"admin", " Admin@Example.com ", "correct-horse", nil, audit.EventLoginSuccess, http.StatusOK},
		{"wrong password", "admin@example.com", "nope", identity.ErrInvalidCredentials, audit.EventLoginFailedWrongPassword, http.StatusUnauthorized},
		{"unknown email", "who@example.com", "correct-horse", identity.ErrInvalidCredentials, audit.EventLoginFailedUserNotFound, http.StatusUnauthorized},
		{"not admin", "guest@example.com", "correct-horse", ErrNotAdmin, audit.EventLoginFailedNotAdmin, http.StatusForbidden},
		{"disabled", "off@example.com", "correct-horse", identity.ErrAccountDisabled, audit.EventLoginFailedUserDisabled, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, ev := setup(t, nil)
			sess, err := s.Attempt(context.Background(), req(), tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if ev.last() != tt.event {
				t.Errorf("audit event = %q, want %q", ev.last(), tt.event)
			}
			if Status(err) != tt.status {
				t.Errorf("status = %d, want %d", Status(err), tt.status)
			}
			if err == nil && (sess.Token == "" || sess.TTL != time.Hour || !sess.Account.Admin) {
				t.Errorf("session: %+v", sess)
			}
		})
	}
}

func TestAttempt_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(100, time.Minute, 2, time.Minute)
	defer limiter.Stop()
	s, _, ev := setup(t, limiter)

	for i := 0; i < 2; i++ {
		_, _ = s.Attempt(context.Background(), req(), "admin@example.com", "wrong")
	}
	_, err := s.Attempt(context.Background(), req(), "admin@example.com", "correct-horse")
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected rate limit, got %v", err)
	}
	if Status(err) != http.StatusTooManyRequests || Message(err) == "" {
		t.Errorf("status=%d message=%q", Status(err), Message(err))
	}
	if ev.last() != audit.EventLoginFailedRateLimit {
		t.Errorf("audit event = %q", ev.last())
	}
}

func TestAttempt_SuccessResetsEmailLimit(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(100, time.Minute, 2, time.Minute)
	defer limiter.Stop()
	s, _, _ := setup(t, limiter)

	_, _ = s.Attempt(context.Background(), req(), "admin@example.com", "wrong")
	if _, err := s.Attempt(context.Background(), req(), "admin@example.com", "correct-horse"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Attempt(context.Background(), req(), "admin@example.com", "correct-horse"); err != nil {
			t.Fatalf("attempt %d after reset: %v", i, err)
		}
	}
}

func TestMessage_DoesNotRevealAccount(t *testing.T) {
	if Message(identity.ErrInvalidCredentials) != "Invalid email or password." {
		t.Errorf("got %q", Message(identity.ErrInvalidCredentials))
	}
	if Message(nil) != "" {
		t.Error("nil error should have no message")
	}
}
