package app_test

import (
	"context"
	"sync"
	"time"

	"facturas/internal/domain"
)

// mockBackend implements domain.InvoicingBackend with optional overrides and
// records every save it receives.
type mockBackend struct {
	pingFn          func(ctx context.Context) error
	listClientsFn   func(ctx context.Context) ([]domain.Client, error)
	listTemplatesFn func(ctx context.Context) ([]domain.InvoiceTemplate, error)
	saveTemplatesFn func(ctx context.Context, templates []domain.InvoiceTemplate) error
	saveClientsFn   func(ctx context.Context, clients []domain.Client) error
	addClientFn     func(ctx context.Context, c domain.NewClient) (*domain.Client, error)
	sendFn          func(ctx context.Context, templates []domain.InvoiceTemplate) (*domain.SendReport, error)

	mu             sync.Mutex
	savedTemplates [][]domain.InvoiceTemplate
	savedClients   [][]domain.Client
	addClientCalls int
	sendCalls      int
}

func (m *mockBackend) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockBackend) ListClients(ctx context.Context) ([]domain.Client, error) {
	if m.listClientsFn != nil {
		return m.listClientsFn(ctx)
	}
	return nil, nil
}

func (m *mockBackend) ListTemplates(ctx context.Context) ([]domain.InvoiceTemplate, error) {
	if m.listTemplatesFn != nil {
		return m.listTemplatesFn(ctx)
	}
	return nil, nil
}

func (m *mockBackend) SaveTemplates(ctx context.Context, templates []domain.InvoiceTemplate) error {
	m.mu.Lock()
	m.savedTemplates = append(m.savedTemplates, templates)
	m.mu.Unlock()
	if m.saveTemplatesFn != nil {
		return m.saveTemplatesFn(ctx, templates)
	}
	return nil
}

func (m *mockBackend) SaveClients(ctx context.Context, clients []domain.Client) error {
	m.mu.Lock()
	m.savedClients = append(m.savedClients, clients)
	m.mu.Unlock()
	if m.saveClientsFn != nil {
		return m.saveClientsFn(ctx, clients)
	}
	return nil
}

func (m *mockBackend) AddClient(ctx context.Context, c domain.NewClient) (*domain.Client, error) {
	m.mu.Lock()
	m.addClientCalls++
	m.mu.Unlock()
	if m.addClientFn != nil {
		return m.addClientFn(ctx, c)
	}
	return &domain.Client{ID: 99, Nombre: c.Nombre, Email: c.Email, Documento: c.Documento}, nil
}

func (m *mockBackend) SendInvoices(ctx context.Context, templates []domain.InvoiceTemplate) (*domain.SendReport, error) {
	m.mu.Lock()
	m.sendCalls++
	m.mu.Unlock()
	if m.sendFn != nil {
		return m.sendFn(ctx, templates)
	}
	return &domain.SendReport{Total: len(templates), Exitosas: len(templates)}, nil
}

func (m *mockBackend) lastSavedTemplates() []domain.InvoiceTemplate {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.savedTemplates) == 0 {
		return nil
	}
	return m.savedTemplates[len(m.savedTemplates)-1]
}

func (m *mockBackend) templateSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.savedTemplates)
}

type mockSendLog struct {
	mu      sync.Mutex
	records []domain.SendRecord
}

func (m *mockSendLog) AddSendRecord(ctx context.Context, rec domain.SendRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *mockSendLog) ListRecentSendRecords(ctx context.Context, limit int) ([]domain.SendRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SendRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

const testSaveTimeout = 5 * time.Second
