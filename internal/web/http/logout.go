package http

import (
	"net/http"

	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

type LogoutHandler struct {
	Sessions *session.Manager
}

// ServeHTTP ends the session and sends the browser home. Logging out while
// not logged in is a no-op, not an error.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Sessions.Destroy(ctx); err != nil {
		slogx.FromContext(ctx).Error("failed to destroy session on logout", "err", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
