package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	adapthttp "facturas/internal/adapter/http"
	"facturas/internal/adapter/memory"
	"facturas/internal/adapter/postgres"
	"facturas/internal/adapter/sqlite"
	"facturas/internal/adapter/tusfacturas"
	"facturas/internal/app"
	"facturas/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, sends, closeStore := openStore()
	defer closeStore()

	backend := tusfacturas.New(env("API_BASE_URL", tusfacturas.DefaultBaseURL), duration("API_TIMEOUT", 30*time.Second))
	log.Printf("invoicing backend at %s", env("API_BASE_URL", tusfacturas.DefaultBaseURL))

	authSvc := app.NewAuthService(loadOperator(), sessions).
		WithLoginDelay(duration("LOGIN_DELAY", 0)).
		WithSessionTTL(duration("SESSION_TTL", 24*time.Hour))
	persist := app.NewPersister(backend, duration("API_TIMEOUT", 30*time.Second))

	workspaces := app.NewWorkspaces()
	svc := adapthttp.Services{
		Auth:       authSvc,
		Sync:       app.NewSyncService(backend, boolEnv("DEMO_FALLBACK")),
		Editor:     app.NewEditorService(backend, persist),
		Send:       app.NewSendService(backend, persist, sends),
		Workspaces: workspaces,
	}

	h := adapthttp.New(svc, setupOIDC(ctx), webDir).Handler()
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	go purgeSessions(ctx, authSvc, workspaces, time.Hour)

	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	persist.Wait()
}

// openStore picks PostgreSQL, then SQLite, then memory for sessions and the
// send log.
func openStore() (domain.SessionRepository, domain.SendLogRepository, func()) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		log.Printf("using postgres store")
		return postgres.NewSessionRepo(db), db, func() { _ = db.Close() }
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		db, err := sqlite.Open(path)
		if err != nil {
			log.Fatalf("sqlite open: %v", err)
		}
		log.Printf("using sqlite store at %s", path)
		return sqlite.NewSessionRepo(db), db, func() { _ = db.Close() }
	}
	log.Printf("using in-memory store; sessions are lost on restart")
	db := memory.New()
	return db.NewSessionRepo(), db, func() {}
}

func loadOperator() app.Operator {
	op := app.Operator{
		Username:     os.Getenv("OPERATOR_USERNAME"),
		PasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
	}
	if op.Username == "" {
		log.Fatal("OPERATOR_USERNAME is required")
	}
	if op.PasswordHash == "" {
		password := os.Getenv("OPERATOR_PASSWORD")
		if password == "" {
			log.Fatal("OPERATOR_PASSWORD_HASH or OPERATOR_PASSWORD is required")
		}
		hash, err := app.HashPassword(password)
		if err != nil {
			log.Fatalf("hash operator password: %v", err)
		}
		op.PasswordHash = hash
	}
	return op
}

func setupOIDC(ctx context.Context) adapthttp.OIDCConfig {
	issuer := os.Getenv("OIDC_ISSUER")
	if issuer == "" {
		return adapthttp.OIDCConfig{}
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		log.Fatalf("oidc provider %s: %v", issuer, err)
	}
	log.Printf("sso enabled via %s", issuer)
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}
}

func purgeSessions(ctx context.Context, auth *app.AuthService, wss *app.Workspaces, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			dropped, err := auth.PurgeExpired(ctx, wss)
			if err != nil {
				log.Printf("purge sessions: %v", err)
				continue
			}
			if dropped > 0 {
				log.Printf("purged %d workspaces, %d open", dropped, wss.Len())
			}
		}
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func boolEnv(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
