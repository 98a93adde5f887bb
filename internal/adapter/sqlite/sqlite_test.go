package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "facturas.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSessionRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := repo.Create(ctx, "silvia", "tok1", expires); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, "silvia", "old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, err := repo.GetByToken(ctx, "tok1")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if s == nil || s.Username != "silvia" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if !s.ExpiresAt.Equal(expires) {
		t.Errorf("expected expiry %v, got %v", expires, s.ExpiresAt)
	}

	if s, err := repo.GetByToken(ctx, "missing"); err != nil || s != nil {
		t.Errorf("expected nil session for unknown token, got %+v %v", s, err)
	}

	if err := repo.DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "old"); s != nil {
		t.Error("expected expired session to be purged")
	}
	if s, _ := repo.GetByToken(ctx, "tok1"); s == nil {
		t.Error("expected live session to survive purge")
	}

	if err := repo.Delete(ctx, "tok1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "tok1"); s != nil {
		t.Error("expected session to be deleted")
	}
}

func TestSendLog(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	recs := []domain.SendRecord{
		{ID: "a", Username: "silvia", SentAt: base, TemplateIDs: []int64{1, 2}, Amount: decimal.RequireFromString("235000"), Total: 2, Exitosas: 2},
		{ID: "b", Username: "silvia", SentAt: base.Add(time.Hour), TemplateIDs: []int64{3}, Amount: decimal.RequireFromString("95000.5"), Total: 1, Fallidas: 1, Error: "Error al enviar facturas"},
		{ID: "c", Username: "silvia", SentAt: base.Add(2 * time.Hour), TemplateIDs: []int64{4}, Amount: decimal.RequireFromString("10"), Total: 1, Exitosas: 1, ModoPrueba: true},
	}
	for _, r := range recs {
		if err := db.AddSendRecord(ctx, r); err != nil {
			t.Fatalf("AddSendRecord: %v", err)
		}
	}

	got, err := db.ListRecentSendRecords(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentSendRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("expected newest first, got %s, %s", got[0].ID, got[1].ID)
	}
	if !got[0].ModoPrueba {
		t.Error("expected modo prueba to round-trip")
	}
	if got[1].Error != "Error al enviar facturas" || got[1].Fallidas != 1 {
		t.Errorf("unexpected failed record: %+v", got[1])
	}
	if !got[1].Amount.Equal(decimal.RequireFromString("95000.50")) {
		t.Errorf("expected amount 95000.50, got %s", got[1].Amount)
	}
	if !got[1].SentAt.Equal(base.Add(time.Hour)) {
		t.Errorf("unexpected sent_at %v", got[1].SentAt)
	}

	all, _ := db.ListRecentSendRecords(ctx, 10)
	if len(all) != 3 || len(all[2].TemplateIDs) != 2 || all[2].TemplateIDs[1] != 2 {
		t.Errorf("unexpected oldest record: %+v", all)
	}
}
