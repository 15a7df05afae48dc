package http

import (
	"errors"
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/goauth"
	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

// GoogleHandler runs both legs of the Google login flow. Every failure lands
// the browser back on /login; the detail stays in the logs.
type GoogleHandler struct {
	Google    *goauth.Service // nil when Google login is not configured
	Federated *service.FederatedService
	Sessions  *session.Manager
}

func (h *GoogleHandler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		slogx.FromContext(r.Context()).Warn("google login requested but not configured")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	url := h.Google.Begin(w)
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.Google == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	subject, err := h.Google.Complete(ctx, r, w)
	if err != nil {
		if errors.Is(err, goauth.ErrStateMismatch) {
			log.Warn("google callback rejected", "err", err)
		} else {
			log.Error("google handshake failed", "err", err)
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.Federated.FindOrCreate(ctx, subject)
	if err != nil {
		log.Error("failed to resolve google user", "err", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.Sessions.Establish(ctx, user.ID); err != nil {
		log.Error("failed to establish session after google login", "user_id", user.ID, "err", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	log.Info("user logged in via google", "user_id", user.ID)
	http.Redirect(w, r, "/secrets", http.StatusSeeOther)
}
