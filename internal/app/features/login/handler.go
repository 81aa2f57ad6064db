// internal/app/features/login/handler.go
package login

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/rentalhub/internal/app/system/auth"
	"github.com/dalemusser/rentalhub/internal/app/system/authutil"
	"github.com/dalemusser/rentalhub/internal/app/system/authz"
	"github.com/dalemusser/rentalhub/internal/app/system/navigation"
	"github.com/dalemusser/rentalhub/internal/app/system/timeouts"
	"github.com/dalemusser/rentalhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	SignIn  *authutil.SignIn
	Flashes *auth.Flashes
	Secure  bool
	Log     *zap.Logger
}

func NewHandler(signIn *authutil.SignIn, flashes *auth.Flashes, secure bool, logger *zap.Logger) *Handler {
	return &Handler{SignIn: signIn, Flashes: flashes, Secure: secure, Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Flashes   []string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if authz.IsAdmin(r) {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AdminReturn), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Admin sign in"),
		Flashes:   h.Flashes.Pop(w, r),
		Email:     query.Get(r, "email"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Flashes.Add(w, r, "Invalid form data.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := navigation.SafeBackURL(r, navigation.AdminReturn)

	if email == "" || password == "" {
		h.Flashes.Add(w, r, "Please enter your email and password.")
		http.Redirect(w, r, loginURL(email, returnURL), http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "sign in")
	defer cancel()

	sess, err := h.SignIn.Attempt(ctx, r, email, password)
	if err != nil {
		h.Flashes.Add(w, r, authutil.Message(err))
		http.Redirect(w, r, loginURL(email, returnURL), http.StatusSeeOther)
		return
	}

	auth.SetTokenCookie(w, sess.Token, sess.TTL, h.Secure)
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

// loginURL rebuilds /login keeping the typed email and the return target.
func loginURL(email, returnURL string) string {
	v := url.Values{}
	if email != "" {
		v.Set("email", email)
	}
	if returnURL != "" && returnURL != navigation.AdminReturn.Fallback {
		v.Set("return", returnURL)
	}
	if len(v) == 0 {
		return "/login"
	}
	return "/login?" + v.Encode()
}
