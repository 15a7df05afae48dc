package http

import (
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/session"
)

type HomeHandler struct {
	Pages *Pages
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Whisperwall"}
	if user, ok := session.CurrentUser(r.Context()); ok {
		data.User = &user
	}
	h.Pages.Render(w, r, "home", data)
}
