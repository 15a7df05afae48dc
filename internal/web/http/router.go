package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/whisperlabs/whisperwall/internal/web/goauth"
	"github.com/whisperlabs/whisperwall/internal/web/service"
	"github.com/whisperlabs/whisperwall/internal/web/session"
	"github.com/whisperlabs/whisperwall/internal/web/store"
	"github.com/whisperlabs/whisperwall/pkg/httpx"
	"github.com/whisperlabs/whisperwall/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	Sessions *session.Manager
	Pages    *Pages

	CredentialService *service.CredentialService
	FederatedService  *service.FederatedService
	SecretService     *service.SecretService
	UserService       *service.UserService
	Google            *goauth.Service // Optional: nil when Google login is not configured
}

func NewRouter(
	buildVersion string,
	st store.Store,
	sessions *session.Manager,
	pages *Pages,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		Sessions:     sessions,
		Pages:        pages,
		logger:       logger,
	}

	// Session middleware sits inside logging so session failures are logged
	// with request context. WithCurrentUser must run after LoadAndSave.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		sessions.LoadAndSave,
		sessions.WithCurrentUser,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerLocalAuth()
	r.registerGoogleAuth()
	r.registerSecrets()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	h := &HomeHandler{Pages: r.Pages}
	r.Mux.Handle("GET /{$}", h)
}

func (r *Router) registerLocalAuth() {
	registerHandler := &RegisterHandler{
		Credentials: r.CredentialService,
		Sessions:    r.Sessions,
		Pages:       r.Pages,
	}
	r.Mux.Handle("GET /register", http.HandlerFunc(registerHandler.HandleForm))
	r.Mux.Handle("POST /register", http.HandlerFunc(registerHandler.HandleSubmit))

	loginHandler := &LoginHandler{
		Credentials: r.CredentialService,
		Sessions:    r.Sessions,
		Pages:       r.Pages,
	}
	r.Mux.Handle("GET /login", http.HandlerFunc(loginHandler.HandleForm))
	r.Mux.Handle("POST /login", http.HandlerFunc(loginHandler.HandleSubmit))

	logoutHandler := &LogoutHandler{Sessions: r.Sessions}
	r.Mux.Handle("GET /logout", logoutHandler)
}

func (r *Router) registerGoogleAuth() {
	h := &GoogleHandler{
		Google:    r.Google,
		Federated: r.FederatedService,
		Sessions:  r.Sessions,
	}
	r.Mux.Handle("GET /auth/google", http.HandlerFunc(h.HandleBegin))
	r.Mux.Handle("GET /auth/google/secrets", http.HandlerFunc(h.HandleCallback))
}

func (r *Router) registerSecrets() {
	secretsHandler := &SecretsHandler{
		Secrets: r.SecretService,
		Pages:   r.Pages,
	}
	// The wall itself is public. Only submitting requires a session.
	r.Mux.Handle("GET /secrets", secretsHandler)

	submitHandler := &SubmitHandler{
		Secrets: r.SecretService,
		Pages:   r.Pages,
	}
	r.Mux.Handle("GET /submit",
		httpx.Chain(http.HandlerFunc(submitHandler.HandleForm), requireAuth),
	)
	r.Mux.Handle("POST /submit",
		httpx.Chain(http.HandlerFunc(submitHandler.HandleSubmit), requireAuth),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// requireAuth rejects requests whose session did not resolve to a user,
// bouncing the browser to the login form.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
