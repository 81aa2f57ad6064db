package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// FlashSessionName is the cookie carrying one-shot messages between a
// POST and the page it redirects to.
const FlashSessionName = "rentalhub-flash"

// Flashes stores short messages in a signed cookie session.
type Flashes struct {
	store *sessions.CookieStore
	log   *zap.Logger
}

// NewFlashes builds the flash store. An empty key is only accepted
// outside prod; a random key is generated so flashes still work until restart.
func NewFlashes(sessionKey string, secure bool, logger *zap.Logger) (*Flashes, error) {
	key := []byte(sessionKey)
	switch {
	case len(key) == 0 && secure:
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	case len(key) == 0:
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("session key not set; using a random key for this process")
	case len(key) < 32:
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store, log: logger}, nil
}

func (f *Flashes) session(r *http.Request) *sessions.Session {
	sess, err := f.store.Get(r, FlashSessionName)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			f.log.Debug("flash cookie invalid, using fresh session", zap.Error(err))
		} else {
			f.log.Warn("flash session error", zap.Error(err))
		}
	}
	return sess
}

// Add queues msg for the next page view.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, msg string) {
	sess := f.session(r)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		f.log.Error("save flash session", zap.Error(err))
	}
}

// Pop returns and clears the queued messages.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []string {
	sess := f.session(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		f.log.Error("save flash session", zap.Error(err))
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
