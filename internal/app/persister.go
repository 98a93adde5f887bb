package app

import (
	"context"
	"log"
	"sync"
	"time"

	"facturas/internal/domain"
)

// Persister pushes full-list overwrites to the backend in the background.
// Failures are logged and never roll back local state. Each list carries the
// ListVersion stamped when it was copied out of the workspace; a write older
// than one already sent for the same list is dropped.
type Persister struct {
	backend domain.InvoicingBackend
	timeout time.Duration

	wg      sync.WaitGroup
	writeMu sync.Mutex
	written map[string]ListVersion
}

// NewPersister creates a Persister writing through backend.
func NewPersister(backend domain.InvoicingBackend, timeout time.Duration) *Persister {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Persister{backend: backend, timeout: timeout, written: make(map[string]ListVersion)}
}

// SaveTemplates schedules a full overwrite of the template list.
func (p *Persister) SaveTemplates(list []domain.InvoiceTemplate, version ListVersion) {
	p.schedule("templates", version, func(ctx context.Context) error {
		return p.backend.SaveTemplates(ctx, list)
	})
}

// SaveClients schedules a full overwrite of the client list.
func (p *Persister) SaveClients(list []domain.Client, version ListVersion) {
	p.schedule("clientes", version, func(ctx context.Context) error {
		return p.backend.SaveClients(ctx, list)
	})
}

// Wait blocks until every scheduled write has finished.
func (p *Persister) Wait() {
	p.wg.Wait()
}

func (p *Persister) schedule(kind string, version ListVersion, write func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.writeMu.Lock()
		defer p.writeMu.Unlock()
		if version <= p.written[kind] {
			log.Printf("save %s: skipped stale write v%d", kind, version)
			return
		}
		p.written[kind] = version

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := write(ctx); err != nil {
			log.Printf("save %s failed: %v", kind, err)
		}
	}()
}
