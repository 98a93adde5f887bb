package adapthttp

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"facturas/internal/app"
	"facturas/internal/domain"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const (
	sessionContextKey   contextKey = "session"
	workspaceContextKey contextKey = "workspace"
)

const sessionCookie = "session"

// devToken keys the shared workspace used when auth is disabled.
const devToken = "dev"

// authMiddleware validates the session cookie and attaches the session and
// its workspace to the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.disableAuth {
			session := &domain.Session{Token: devToken, Username: devToken}
			next.ServeHTTP(w, r.WithContext(s.bindWorkspace(r.Context(), session)))
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		session, err := s.authSvc.ValidateSession(r.Context(), cookie.Value)
		if errors.Is(err, app.ErrSessionNotFound) || errors.Is(err, app.ErrSessionExpired) {
			s.workspaces.Discard(cookie.Value)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(s.bindWorkspace(r.Context(), session)))
	})
}

// bindWorkspace stores session and workspace in ctx. A session without a
// workspace (the server restarted since login) gets one loaded on the spot.
func (s *Server) bindWorkspace(ctx context.Context, session *domain.Session) context.Context {
	ws, created := s.workspaces.Get(session.Token)
	if created {
		_ = s.sync.TestConnection(ctx, ws)
	}
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, workspaceContextKey, ws)
}

func sessionFrom(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return s
}

func workspaceFrom(ctx context.Context) *app.Workspace {
	ws, _ := ctx.Value(workspaceContextKey).(*app.Workspace)
	return ws
}

// loggingMiddleware tags each request with an id and logs one line once the
// response has been written.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %d %s id=%s", r.Method, r.URL.Path, status, time.Since(start).Round(time.Microsecond), id)
	})
}
