// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"facturas/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// Operator is the single principal allowed into the console.
type Operator struct {
	Username     string
	PasswordHash string
}

// AuthService handles authentication and session management.
type AuthService struct {
	operator   Operator
	sessions   domain.SessionRepository
	loginDelay time.Duration
	ttl        time.Duration
}

// NewAuthService creates a new authentication service for one operator.
func NewAuthService(operator Operator, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		operator: operator,
		sessions: sessions,
		ttl:      24 * time.Hour,
	}
}

// WithLoginDelay makes Login pause before answering. The pause only exists to
// drive the page's loading indicator.
func (s *AuthService) WithLoginDelay(d time.Duration) *AuthService {
	s.loginDelay = d
	return s
}

// WithSessionTTL overrides the default 24h session lifetime.
func (s *AuthService) WithSessionTTL(d time.Duration) *AuthService {
	if d > 0 {
		s.ttl = d
	}
	return s
}

// SessionTTL is the lifetime given to new sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login checks the credentials against the operator and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if s.loginDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.loginDelay):
		}
	}

	if username == "" || password == "" || s.operator.Username == "" {
		return "", ErrInvalidCredentials
	}
	if !ConstantTimeCompare(username, s.operator.Username) {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.createSession(ctx)
}

// LoginWithIdentity creates a session for an identity asserted by the SSO
// provider. Only the operator's identity is accepted.
func (s *AuthService) LoginWithIdentity(ctx context.Context, identity string) (string, error) {
	if identity == "" || !ConstantTimeCompare(identity, s.operator.Username) {
		return "", ErrInvalidCredentials
	}
	return s.createSession(ctx)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks that a session token exists and has not expired.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return session, nil
}

// PurgeExpired removes sessions past their expiry and drops the workspaces
// whose session no longer exists. It returns the number of workspaces
// dropped. A workspace is kept when its session cannot be looked up.
func (s *AuthService) PurgeExpired(ctx context.Context, wss *Workspaces) (int, error) {
	if err := s.sessions.DeleteExpired(ctx); err != nil {
		return 0, err
	}
	dropped := wss.Retain(func(token string) bool {
		session, err := s.sessions.GetByToken(ctx, token)
		return err != nil || session != nil
	})
	return dropped, nil
}

func (s *AuthService) createSession(ctx context.Context) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(s.ttl)
	if err := s.sessions.Create(ctx, s.operator.Username, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// HashPassword returns the bcrypt hash stored as the operator's password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
