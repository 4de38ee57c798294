package handlers

import (
	"errors"
	"net/http"

	"github.com/justinas/nosurf"

	"github.com/gunnarhm/mkcontrol/services"
)

const sessionCookieName = "mk_session"

var setupErrors = map[string]string{
	"mismatch": "Passwords don't match",
	"short":    "Password must be at least 4 characters",
	"empty":    "Password cannot be empty",
}

var loginErrors = map[string]string{
	"wrong": "Wrong password",
}

var changePasswordErrors = map[string]string{
	"wrong":    "Current password is incorrect",
	"mismatch": "New passwords don't match",
	"empty":    "New password cannot be empty",
	"short":    "Password must be at least 4 characters",
}

// errorCode maps a credential error to the short code carried in the
// redirect query.
func errorCode(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyCredential):
		return "empty"
	case errors.Is(err, services.ErrCredentialTooShort):
		return "short"
	case errors.Is(err, services.ErrCredentialMismatch):
		return "mismatch"
	case errors.Is(err, services.ErrWrongCredential):
		return "wrong"
	default:
		return ""
	}
}

func (h *Handler) formData(r *http.Request, messages map[string]string) templateData {
	return templateData{
		Error:     messages[r.URL.Query().Get("error")],
		CSRFToken: nosurf.Token(r),
	}
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.AuthService.SessionTTL().Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// GET /setup
func (h *Handler) setupPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.render(w, http.StatusOK, "setup", h.formData(r, setupErrors))
}

// POST /setup
func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Password string `form:"pw"`
		Confirm  string `form:"pw2"`
	}
	body, err := decodeForm[request](r)
	if err != nil {
		clientError(w, http.StatusBadRequest)
		return
	}
	switch {
	case body.Password == "":
		http.Redirect(w, r, "/setup?error=empty", http.StatusSeeOther)
	case body.Password != body.Confirm:
		http.Redirect(w, r, "/setup?error=mismatch", http.StatusSeeOther)
	default:
		if err := h.AuthService.SetCredential(body.Password); err != nil {
			http.Redirect(w, r, "/setup?error="+errorCode(err), http.StatusSeeOther)
			return
		}
		// First-run setup logs the caller in right away; no separate login step.
		token, err := h.AuthService.CreateSession()
		if err != nil {
			serverError(w, err)
			return
		}
		h.setSessionCookie(w, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// GET /login
func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.render(w, http.StatusOK, "login", h.formData(r, loginErrors))
}

// POST /login
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Password string `form:"pw"`
	}
	body, err := decodeForm[request](r)
	if err != nil {
		clientError(w, http.StatusBadRequest)
		return
	}
	if !h.AuthService.VerifyCredential(body.Password) {
		http.Redirect(w, r, "/login?error=wrong", http.StatusSeeOther)
		return
	}
	token, err := h.AuthService.CreateSession()
	if err != nil {
		serverError(w, err)
		return
	}
	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /logout
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.RevokeSession(sessionToken(r))
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// GET /
func (h *Handler) controlPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.render(w, http.StatusOK, "control", templateData{CSRFToken: nosurf.Token(r)})
}

// GET /change-password
func (h *Handler) changePasswordPage(w http.ResponseWriter, r *http.Request) {
	data := h.formData(r, changePasswordErrors)
	if r.URL.Query().Has("success") {
		data.Success = "Password updated"
	}
	h.Renderer.render(w, http.StatusOK, "change-password", data)
}

// POST /change-password
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Current  string `form:"cur"`
		Password string `form:"pw"`
		Confirm  string `form:"pw2"`
	}
	body, err := decodeForm[request](r)
	if err != nil {
		clientError(w, http.StatusBadRequest)
		return
	}
	// The caller's own session survives the rotation; everyone else is
	// forced to log in again.
	err = h.AuthService.ChangeCredential(body.Current, body.Password, body.Confirm, sessionToken(r))
	if err != nil {
		if code := errorCode(err); code != "" {
			http.Redirect(w, r, "/change-password?error="+code, http.StatusSeeOther)
			return
		}
		serverError(w, err)
		return
	}
	http.Redirect(w, r, "/change-password?success=1", http.StatusSeeOther)
}
