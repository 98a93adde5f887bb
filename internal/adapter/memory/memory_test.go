package memory

import (
	"context"
	"testing"
	"time"

	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

func TestSendLogRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := db.AddSendRecord(ctx, domain.SendRecord{
			ID:          string(rune('a' + i)),
			Username:    "silvia",
			SentAt:      base.Add(time.Duration(i) * time.Hour),
			TemplateIDs: []int64{int64(i + 1)},
			Amount:      decimal.NewFromInt(1000),
			Total:       1,
			Exitosas:    1,
		})
		if err != nil {
			t.Fatalf("AddSendRecord: %v", err)
		}
	}

	recs, err := db.ListRecentSendRecords(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentSendRecords: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ID != "c" || recs[1].ID != "b" {
		t.Errorf("expected newest first, got %s, %s", recs[0].ID, recs[1].ID)
	}

	// Returned records are copies.
	recs[0].TemplateIDs[0] = 99
	again, _ := db.ListRecentSendRecords(ctx, 1)
	if again[0].TemplateIDs[0] == 99 {
		t.Error("expected stored record to be unaffected")
	}
}

func TestSessionRepository(t *testing.T) {
	db := New()
	repo := db.NewSessionRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, "silvia", "tok1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, "silvia", "old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, err := repo.GetByToken(ctx, "tok1")
	if err != nil || s == nil {
		t.Fatalf("GetByToken: %v %v", s, err)
	}
	if s.Username != "silvia" {
		t.Errorf("expected silvia, got %s", s.Username)
	}

	if err := repo.DeleteExpired(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := repo.GetByToken(ctx, "old"); s != nil {
		t.Error("expected expired session to be purged")
	}

	if err := repo.Delete(ctx, "tok1"); err != nil {
		t.Fatal(err)
	}
	if s, _ := repo.GetByToken(ctx, "tok1"); s != nil {
		t.Error("expected session to be deleted")
	}
}
