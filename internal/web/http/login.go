package http

import (
	"errors"
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

type LoginHandler struct {
	Credentials *service.CredentialService
	Sessions    *session.Manager
	Pages       *Pages
}

func (h *LoginHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/secrets", http.StatusFound)
		return
	}
	h.Pages.Render(w, r, "login", PageData{Title: "Log in"})
}

func (h *LoginHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.Credentials.Verify(ctx, username, password)
	if err != nil {
		// One outcome for every failure mode so the flow does not leak
		// which usernames exist.
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Info("login rejected")
		} else {
			log.Error("login failed", "err", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.Sessions.Establish(ctx, user.ID); err != nil {
		log.Error("failed to establish session after login", "user_id", user.ID, "err", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	log.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}
