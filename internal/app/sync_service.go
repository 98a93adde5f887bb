package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"facturas/internal/domain"

	"golang.org/x/sync/errgroup"
)

// SyncService loads the client and template lists from the backend into a
// workspace.
type SyncService struct {
	backend      domain.InvoicingBackend
	demoFallback bool
	now          func() time.Time
}

// NewSyncService creates a SyncService. With demoFallback set, an unreachable
// backend loads the sample dataset so the console stays usable.
func NewSyncService(backend domain.InvoicingBackend, demoFallback bool) *SyncService {
	return &SyncService{backend: backend, demoFallback: demoFallback, now: time.Now}
}

// TestConnection checks the backend and, when it answers, loads both lists.
func (s *SyncService) TestConnection(ctx context.Context, ws *Workspace) error {
	ws.beginLoad()
	ws.setConnection(ConnectionChecking, "")

	err := s.backend.Ping(ctx)
	if err == nil {
		ws.setConnection(ConnectionConnected, "")
		return s.LoadAll(ctx, ws)
	}

	log.Printf("connection test failed: %v", err)
	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		ws.setConnection(ConnectionError, MsgUnreachable)
		return fmt.Errorf("%w: %v", ErrConnectionUnreachable, err)
	}
	ws.setConnection(ConnectionError, MsgConnectionError)
	if s.demoFallback {
		log.Printf("loading sample dataset")
		ws.replace(SampleClients(), SampleTemplates(), s.now(), true)
	}
	return fmt.Errorf("%w: %v", ErrConnectionUnreachable, err)
}

// LoadAll fetches clients and templates concurrently and replaces the cached
// lists once both have arrived. On failure the cache is left as it was.
func (s *SyncService) LoadAll(ctx context.Context, ws *Workspace) error {
	ws.beginLoad()

	var (
		clients   []domain.Client
		templates []domain.InvoiceTemplate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.backend.ListClients(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		templates, err = s.backend.ListTemplates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("load failed: %v", err)
		ws.loadFailed(MsgFetchFailed)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	log.Printf("loaded %d clients, %d templates", len(clients), len(templates))
	ws.replace(clients, templates, s.now(), false)
	return nil
}
