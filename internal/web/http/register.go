package http

import (
	"errors"
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

type RegisterHandler struct {
	Credentials *service.CredentialService
	Sessions    *session.Manager
	Pages       *Pages
}

func (h *RegisterHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/secrets", http.StatusFound)
		return
	}
	h.Pages.Render(w, r, "register", PageData{Title: "Register"})
}

func (h *RegisterHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.Credentials.Register(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			log.Info("registration rejected, username taken")
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Info("registration rejected, empty username or password")
		default:
			log.Error("registration failed", "err", err)
		}
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	if err := h.Sessions.Establish(ctx, user.ID); err != nil {
		log.Error("failed to establish session after registration", "user_id", user.ID, "err", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}
