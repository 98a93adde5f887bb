package adapthttp

import (
	"net/http"

	"facturas/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
)

// OIDCConfig holds single sign-on settings. Enabled is false when no issuer
// is configured.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Services groups the application services the server routes to.
type Services struct {
	Auth       *app.AuthService
	Sync       *app.SyncService
	Editor     *app.EditorService
	Send       *app.SendService
	Workspaces *app.Workspaces
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	authSvc     *app.AuthService
	sync        *app.SyncService
	editor      *app.EditorService
	send        *app.SendService
	workspaces  *app.Workspaces
	oidcConfig  OIDCConfig
	webDir      string
	disableAuth bool
}

// New creates a Server wired to the given application services. An empty
// webDir disables static file serving.
func New(svc Services, oidcConfig OIDCConfig, webDir string) *Server {
	return &Server{
		authSvc:    svc.Auth,
		sync:       svc.Sync,
		editor:     svc.Editor,
		send:       svc.Send,
		workspaces: svc.Workspaces,
		oidcConfig: oidcConfig,
		webDir:     webDir,
	}
}

// WithoutAuth disables session checks; every request shares one workspace.
// Used by tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Route("/api", func(api chi.Router) {
		api.Use(withNoCache)
		// Registered before the root NotFound so unknown API paths never fall
		// through to the single page app.
		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		})

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		api.Get("/config", s.handleConfig)
		api.Post("/login", s.handleLogin)
		api.Post("/logout", s.handleLogout)
		api.Get("/sso/login", s.handleSSOLogin)
		api.Get("/sso/callback", s.handleSSOCallback)

		api.Group(func(p chi.Router) {
			p.Use(s.authMiddleware)

			p.Get("/workspace", s.handleWorkspace)
			p.Post("/workspace/connection", s.handleTestConnection)
			p.Post("/workspace/sync", s.handleSync)

			p.Post("/templates", s.handleAddTemplate)
			p.Delete("/templates/{id}", s.handleDeleteTemplate)
			p.Post("/templates/{id}/toggle", s.handleToggleTemplate)
			p.Post("/templates/{id}/{field}/edit", s.handleBeginEdit)
			p.Put("/templates/{id}/{field}", s.handleCommitEdit)
			p.Delete("/editing", s.handleCancelEdit)

			p.Post("/clients", s.handleAddClient)

			p.Post("/send", s.handleSendRequest)
			p.Post("/send/cancel", s.handleSendCancel)
			p.Post("/send/confirm", s.handleSendConfirm)
			p.Post("/send/dismiss", s.handleSendDismiss)
			p.Get("/sends/recent", s.handleSendsRecent)
		})
	})

	if s.webDir != "" {
		r.NotFound(spaFromDisk(s.webDir).ServeHTTP)
	}
	return r
}
