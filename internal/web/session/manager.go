// Package session maps opaque browser-held tokens to authenticated user ids.
//
// Only the user id is kept in the server-side session record; the full user
// is re-read from the store on every request, so record changes are visible
// without re-authentication.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/whisperlabs/whisperwall/internal/web/domain"
	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

const userIDKey = "userID"

type userCtxKey struct{}

// Manager wraps an scs.SessionManager with the user-restore policy of this
// application.
type Manager struct {
	SCS   *scs.SessionManager
	Users *service.UserService
}

type Config struct {
	CookieName string
	Lifetime   time.Duration
	Secure     bool // off in dev so the cookie survives plain http
}

func NewManager(cfg Config, users *service.UserService) *Manager {
	sm := scs.New()
	if cfg.CookieName != "" {
		sm.Cookie.Name = cfg.CookieName
	}
	if cfg.Lifetime > 0 {
		sm.Lifetime = cfg.Lifetime
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.Secure
	sm.Cookie.SameSite = http.SameSiteLaxMode

	return &Manager{SCS: sm, Users: users}
}

// Establish records the authenticated user id against a fresh session token.
// The token is renewed so a pre-login session id never carries over into an
// authenticated one.
func (m *Manager) Establish(ctx context.Context, userID string) error {
	if err := m.SCS.RenewToken(ctx); err != nil {
		return err
	}
	m.SCS.Put(ctx, userIDKey, userID)
	return nil
}

// Destroy clears the server-side session mapping and invalidates the cookie.
// The user record itself is untouched.
func (m *Manager) Destroy(ctx context.Context) error {
	return m.SCS.Destroy(ctx)
}

// UserID returns the user id bound to the request's session, or "" when the
// session carries no authenticated identity.
func (m *Manager) UserID(ctx context.Context) string {
	return m.SCS.GetString(ctx, userIDKey)
}

// LoadAndSave is the scs middleware that loads the session for the request
// and writes the cookie/token on the way out. It must wrap every route.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.SCS.LoadAndSave(next)
}

// WithCurrentUser re-fetches the session's user record and attaches it to
// the request context. Sessions whose user no longer exists are destroyed so
// a stale token cannot keep resolving.
func (m *Manager) WithCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := m.UserID(ctx)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.Users.GetUserByID(ctx, userID)
		if err != nil {
			log := slogx.FromContext(ctx)
			if errors.Is(err, service.ErrUserNotFound) {
				log.Warn("session resolved to missing user, destroying session", "user_id", userID)
				if derr := m.Destroy(ctx); derr != nil {
					log.Error("failed to destroy stale session", "err", derr)
				}
			} else {
				log.Error("failed to restore session user", "user_id", userID, "err", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// CurrentUser returns the authenticated user attached to the context, if any.
func CurrentUser(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(domain.User)
	return u, ok
}
