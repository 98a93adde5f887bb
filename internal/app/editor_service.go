package app

import (
	"context"
	"fmt"
	"strings"

	"facturas/internal/domain"
)

// EditorService applies list edits to a workspace and persists them.
type EditorService struct {
	backend domain.InvoicingBackend
	persist *Persister
}

// NewEditorService creates an EditorService.
func NewEditorService(backend domain.InvoicingBackend, persist *Persister) *EditorService {
	return &EditorService{backend: backend, persist: persist}
}

// BeginEdit puts one field in edit state and returns its current value.
func (s *EditorService) BeginEdit(ws *Workspace, id int64, field Field) (string, error) {
	return ws.BeginEdit(id, field)
}

// CancelEdit leaves edit state without committing.
func (s *EditorService) CancelEdit(ws *Workspace) {
	ws.CancelEdit()
}

// CommitEdit stores a new field value and saves the template list.
func (s *EditorService) CommitEdit(ws *Workspace, id int64, field Field, raw string) error {
	list, version, err := ws.CommitEdit(id, field, raw)
	if err != nil {
		return err
	}
	s.persist.SaveTemplates(list, version)
	return nil
}

// ToggleSelection flips a template's selection. Selection is staging state
// and is not saved.
func (s *EditorService) ToggleSelection(ws *Workspace, id int64) error {
	return ws.ToggleSelection(id)
}

// DeleteTemplate removes a template and saves the list.
func (s *EditorService) DeleteTemplate(ws *Workspace, id int64) error {
	list, version, err := ws.DeleteTemplate(id)
	if err != nil {
		return err
	}
	s.persist.SaveTemplates(list, version)
	return nil
}

// AddTemplate creates a template for the first client and saves the list.
func (s *EditorService) AddTemplate(ws *Workspace) (domain.InvoiceTemplate, error) {
	t, list, version, err := ws.AddTemplate()
	if err != nil {
		return domain.InvoiceTemplate{}, err
	}
	s.persist.SaveTemplates(list, version)
	return t, nil
}

// AddClient creates (or associates) a client through the backend and caches
// the canonical record it returns.
func (s *EditorService) AddClient(ctx context.Context, ws *Workspace, nombre, documento, email string) (*domain.Client, error) {
	in := domain.NewClient{
		Nombre:    strings.TrimSpace(nombre),
		Documento: strings.TrimSpace(documento),
		Email:     strings.TrimSpace(email),
	}
	if in.Nombre == "" || in.Documento == "" {
		return nil, fmt.Errorf("%w: nombre and documento are required", ErrValidation)
	}

	ws.setAddingClient(true)
	defer ws.setAddingClient(false)

	c, err := s.backend.AddClient(ctx, in)
	if err != nil {
		return nil, err
	}
	if list, version, changed := ws.AppendClient(*c); changed {
		s.persist.SaveClients(list, version)
	}
	return c, nil
}
