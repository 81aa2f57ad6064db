// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Email is a single outgoing message.
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP settings. An empty Host puts the mailer in log-only
// mode, which is what dev uses.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer sends email over SMTP.
type Mailer struct {
	cfg  Config
	log  *zap.Logger
	send func(*gomail.Message) error
}

func New(cfg Config, logger *zap.Logger) *Mailer {
	m := &Mailer{cfg: cfg, log: logger}
	if cfg.Host != "" {
		if cfg.Port == 0 {
			cfg.Port = 587
		}
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		m.send = func(msg *gomail.Message) error { return d.DialAndSend(msg) }
	}
	return m
}

// Enabled reports whether messages actually leave the process.
func (m *Mailer) Enabled() bool { return m.send != nil }

// Send delivers e. In log-only mode the message is logged and dropped.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if len(e.To) == 0 {
		return errors.New("mailer: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.send == nil {
		m.log.Info("mail (log-only)",
			zap.Strings("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}

	if err := m.send(m.message(e)); err != nil {
		return fmt.Errorf("mailer: send %q: %w", e.Subject, err)
	}
	m.log.Info("mail sent", zap.Strings("to", e.To), zap.String("subject", e.Subject))
	return nil
}

func (m *Mailer) message(e Email) *gomail.Message {
	msg := gomail.NewMessage()
	if m.cfg.FromName != "" {
		msg.SetHeader("From", msg.FormatAddress(m.cfg.From, m.cfg.FromName))
	} else {
		msg.SetHeader("From", m.cfg.From)
	}
	msg.SetHeader("To", e.To...)
	if r := strings.TrimSpace(e.ReplyTo); r != "" {
		msg.SetHeader("Reply-To", r)
	}
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternative("text/html", e.HTMLBody)
	}
	return msg
}
