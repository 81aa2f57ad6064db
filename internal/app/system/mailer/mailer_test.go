package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

func TestSend_BuildsMessage(t *testing.T) {
	m := New(Config{From: "noreply@rentalhub.test", FromName: "RentalHub"}, zap.NewNop())
	var sent *gomail.Message
	m.send = func(msg *gomail.Message) error { sent = msg; return nil }

	e := BuildContactEmail([]string{"owner@rentalhub.test", "ops@rentalhub.test"}, ContactEmailData{
		SiteName:    "RentalHub",
		Name:        "Jane <Guest>",
		Email:       "jane@example.com",
		Message:     "Is the villa free in May?",
		SubmittedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	})
	if err := m.Send(context.Background(), e); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := sent.GetHeader("To"); len(got) != 2 {
		t.Errorf("To: got %v", got)
	}
	if got := sent.GetHeader("Reply-To"); len(got) != 1 || got[0] != "jane@example.com" {
		t.Errorf("Reply-To: got %v", got)
	}
	if got := sent.GetHeader("From"); len(got) != 1 || !strings.Contains(got[0], "RentalHub") {
		t.Errorf("From: got %v", got)
	}
	if strings.Contains(e.HTMLBody, "<Guest>") {
		t.Error("HTML body must escape the visitor's name")
	}
	if !strings.Contains(e.TextBody, "Is the villa free in May?") {
		t.Error("text body missing message")
	}
}

func TestSend_LogOnlyWithoutHost(t *testing.T) {
	m := New(Config{}, zap.NewNop())
	if m.Enabled() {
		t.Fatal("mailer without host should be log-only")
	}
	if err := m.Send(context.Background(), Email{To: []string{"a@b.test"}, Subject: "x"}); err != nil {
		t.Errorf("log-only send: %v", err)
	}
}

func TestSend_Errors(t *testing.T) {
	m := New(Config{Host: "smtp.test"}, zap.NewNop())
	if err := m.Send(context.Background(), Email{}); err == nil {
		t.Error("expected error without recipients")
	}

	boom := errors.New("connection refused")
	m.send = func(*gomail.Message) error { return boom }
	if err := m.Send(context.Background(), Email{To: []string{"a@b.test"}}); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped send error", err)
	}
}
