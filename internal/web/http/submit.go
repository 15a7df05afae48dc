package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

// SubmitHandler is only reachable behind requireAuth, so CurrentUser is
// guaranteed to resolve here.
type SubmitHandler struct {
	Secrets *service.SecretService
	Pages   *Pages
}

func (h *SubmitHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	user, _ := session.CurrentUser(r.Context())
	h.Pages.Render(w, r, "submit", PageData{Title: "Share a secret", User: &user})
}

func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := session.CurrentUser(ctx)

	secret := strings.TrimSpace(r.PostFormValue("secret"))
	if secret == "" {
		h.renderError(w, r, user, "A secret cannot be empty.")
		return
	}

	if err := h.Secrets.Share(ctx, user.ID, secret); err != nil {
		log := slogx.FromContext(ctx)
		if errors.Is(err, service.ErrUserNotFound) {
			// The account vanished mid-session; drop them back to login.
			log.Warn("secret submitted for missing user", "user_id", user.ID)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		log.Error("failed to store secret", "user_id", user.ID, "err", err)
		h.renderError(w, r, user, "Something went wrong, please try again.")
		return
	}

	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}

func (h *SubmitHandler) renderError(w http.ResponseWriter, r *http.Request, user domain.User, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.Pages.Render(w, r, "submit", PageData{Title: "Share a secret", User: &user, Error: msg})
}
