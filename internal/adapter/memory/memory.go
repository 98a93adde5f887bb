// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"facturas/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	sends    []domain.SendRecord
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.SendLogRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- SendLogRepository ---

// AddSendRecord appends a send record.
func (db *DB) AddSendRecord(ctx context.Context, rec domain.SendRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	rec.SentAt = rec.SentAt.UTC()
	rec.TemplateIDs = append([]int64(nil), rec.TemplateIDs...)
	db.sends = append(db.sends, rec)
	return nil
}

// ListRecentSendRecords lists the most recent send records.
func (db *DB) ListRecentSendRecords(ctx context.Context, limit int) ([]domain.SendRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.SendRecord, len(db.sends))
	copy(result, db.sends)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	for i := range result {
		result[i].TemplateIDs = append([]int64(nil), result[i].TemplateIDs...)
	}
	return result, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, username, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
