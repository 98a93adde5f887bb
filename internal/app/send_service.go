package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"facturas/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SendService drives the batch sender: request, confirm or cancel, and the
// backend submission of the selected templates.
type SendService struct {
	backend domain.InvoicingBackend
	persist *Persister
	sends   domain.SendLogRepository
	now     func() time.Time
}

// NewSendService creates a SendService that records every batch in sends.
func NewSendService(backend domain.InvoicingBackend, persist *Persister, sends domain.SendLogRepository) *SendService {
	return &SendService{backend: backend, persist: persist, sends: sends, now: time.Now}
}

// Request asks for confirmation. It is a no-op returning ErrNothingSelected
// when nothing is selected.
func (s *SendService) Request(ws *Workspace) (int, decimal.Decimal, error) {
	return ws.RequestSend()
}

// Cancel abandons a pending confirmation without any network call.
func (s *SendService) Cancel(ws *Workspace) error {
	return ws.CancelSend()
}

// Dismiss clears the outcome of the last send.
func (s *SendService) Dismiss(ws *Workspace) {
	ws.DismissSend()
}

// Confirm submits the templates selected right now. When the backend reports
// no failures, exactly those templates are deselected and the list saved;
// otherwise the selection is kept so the same batch can be retried.
func (s *SendService) Confirm(ctx context.Context, ws *Workspace, username string) (*domain.SendReport, error) {
	batch, err := ws.beginSend()
	if err != nil {
		return nil, err
	}
	log.Printf("sending %d invoices", len(batch))

	report, sendErr := s.backend.SendInvoices(ctx, batch)
	if sendErr == nil && report == nil {
		sendErr = errors.New("empty send report")
	}
	list, version, persist := ws.finishSend(batch, report, sendErr)
	if persist {
		s.persist.SaveTemplates(list, version)
	}
	s.record(ctx, username, batch, report, sendErr)

	if sendErr != nil {
		log.Printf("send failed: %v", sendErr)
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, sendErr)
	}
	log.Printf("send result: %d/%d ok, %d failed, test mode %t", report.Exitosas, report.Total, report.Fallidas, report.ModoPrueba)
	return report, nil
}

// Recent returns the latest send records, newest first.
func (s *SendService) Recent(ctx context.Context, limit int) ([]domain.SendRecord, error) {
	return s.sends.ListRecentSendRecords(ctx, limit)
}

func (s *SendService) record(ctx context.Context, username string, batch []domain.InvoiceTemplate, report *domain.SendReport, sendErr error) {
	rec := domain.SendRecord{
		ID:          uuid.NewString(),
		Username:    username,
		SentAt:      s.now().UTC(),
		TemplateIDs: make([]int64, 0, len(batch)),
		Amount:      decimal.Zero,
	}
	for _, t := range batch {
		rec.TemplateIDs = append(rec.TemplateIDs, t.ID)
		rec.Amount = rec.Amount.Add(t.Monto)
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	} else {
		rec.Total = report.Total
		rec.Exitosas = report.Exitosas
		rec.Fallidas = report.Fallidas
		rec.ModoPrueba = report.ModoPrueba
	}
	if err := s.sends.AddSendRecord(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("record send %s: %v", rec.ID, err)
	}
}
