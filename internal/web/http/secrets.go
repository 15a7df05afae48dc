package http

import (
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

type SecretsHandler struct {
	Secrets *service.SecretService
	Pages   *Pages
}

func (h *SecretsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Secrets.ListShared(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list shared secrets", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := PageData{Title: "Secrets", Users: users}
	if user, ok := session.CurrentUser(ctx); ok {
		data.User = &user
	}
	h.Pages.Render(w, r, "secrets", data)
}
