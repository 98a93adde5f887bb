package app_test

import (
	"context"
	"errors"
	"testing"

	"facturas/internal/app"
	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

// loadedWorkspace returns a workspace holding the sample dataset.
func loadedWorkspace(t *testing.T) *app.Workspace {
	t.Helper()
	ws := app.NewWorkspace()
	backend := &mockBackend{
		listClientsFn: func(context.Context) ([]domain.Client, error) { return app.SampleClients(), nil },
		listTemplatesFn: func(context.Context) ([]domain.InvoiceTemplate, error) {
			return app.SampleTemplates(), nil
		},
	}
	if err := app.NewSyncService(backend, false).LoadAll(context.Background(), ws); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	return ws
}

func TestToggleSelection_DoubleToggleIsIdentity(t *testing.T) {
	ws := loadedWorkspace(t)
	before := ws.Templates()

	for _, tpl := range before {
		if err := ws.ToggleSelection(tpl.ID); err != nil {
			t.Fatalf("toggle %d: %v", tpl.ID, err)
		}
		if err := ws.ToggleSelection(tpl.ID); err != nil {
			t.Fatalf("toggle %d: %v", tpl.ID, err)
		}
	}
	after := ws.Templates()
	for i := range before {
		if before[i].Selected != after[i].Selected {
			t.Errorf("template %d: selected %t -> %t", before[i].ID, before[i].Selected, after[i].Selected)
		}
	}

	if err := ws.ToggleSelection(404); !errors.Is(err, app.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestAddTemplate(t *testing.T) {
	ws := loadedWorkspace(t)

	tpl, list, _, err := ws.AddTemplate()
	if err != nil {
		t.Fatalf("AddTemplate: %v", err)
	}
	for _, other := range list[:len(list)-1] {
		if tpl.ID <= other.ID {
			t.Errorf("new id %d not greater than %d", tpl.ID, other.ID)
		}
	}
	if tpl.ID != 5 {
		t.Errorf("expected id 5, got %d", tpl.ID)
	}
	if tpl.ClienteID != 1 || !tpl.Selected || !tpl.Monto.IsZero() || tpl.Concepto != app.DefaultConcepto {
		t.Errorf("unexpected defaults: %+v", tpl)
	}
}

func TestAddTemplate_EmptyListStartsAtOne(t *testing.T) {
	ws := loadedWorkspace(t)
	for _, tpl := range ws.Templates() {
		if _, _, err := ws.DeleteTemplate(tpl.ID); err != nil {
			t.Fatal(err)
		}
	}
	tpl, _, _, err := ws.AddTemplate()
	if err != nil {
		t.Fatal(err)
	}
	if tpl.ID != 1 {
		t.Errorf("expected id 1, got %d", tpl.ID)
	}
}

func TestAddTemplate_RequiresClient(t *testing.T) {
	ws := app.NewWorkspace()
	if _, _, _, err := ws.AddTemplate(); !errors.Is(err, app.ErrNoClients) {
		t.Fatalf("expected ErrNoClients, got %v", err)
	}
	if n := len(ws.Templates()); n != 0 {
		t.Errorf("expected no templates, got %d", n)
	}
}

func TestEditFlow(t *testing.T) {
	ws := loadedWorkspace(t)

	seed, err := ws.BeginEdit(2, app.FieldMonto)
	if err != nil {
		t.Fatal(err)
	}
	if seed != "85000.00" {
		t.Errorf("expected seed 85000.00, got %q", seed)
	}
	if p := ws.Snapshot().Editing; p == nil || p.TemplateID != 2 || p.Field != app.FieldMonto {
		t.Fatalf("unexpected edit pointer %+v", p)
	}

	// Moving to another field replaces the pointer.
	if _, err := ws.BeginEdit(3, app.FieldConcepto); err != nil {
		t.Fatal(err)
	}
	if p := ws.Snapshot().Editing; p.TemplateID != 3 || p.Field != app.FieldConcepto {
		t.Fatalf("expected pointer on 3/concepto, got %+v", p)
	}

	list, _, err := ws.CommitEdit(3, app.FieldConcepto, "  Asesoramiento {MM_AAAA_ANTERIOR_TEXTO} ")
	if err != nil {
		t.Fatal(err)
	}
	if list[2].Concepto != "  Asesoramiento {MM_AAAA_ANTERIOR_TEXTO} " {
		t.Errorf("concepto not stored verbatim: %q", list[2].Concepto)
	}
	if ws.Snapshot().Editing != nil {
		t.Error("commit should leave edit state")
	}

	list, _, err = ws.CommitEdit(2, app.FieldMonto, "no es un número")
	if err != nil {
		t.Fatal(err)
	}
	if !list[1].Monto.IsZero() {
		t.Errorf("expected monto 0, got %s", list[1].Monto)
	}

	list, _, err = ws.CommitEdit(2, app.FieldMonto, "$1.234,56")
	if err != nil {
		t.Fatal(err)
	}
	if !list[1].Monto.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("expected 1234.56, got %s", list[1].Monto)
	}

	list, _, err = ws.CommitEdit(2, app.FieldClienteID, "4")
	if err != nil {
		t.Fatal(err)
	}
	if list[1].ClienteID != 4 {
		t.Errorf("expected clienteId 4, got %d", list[1].ClienteID)
	}
	if _, _, err := ws.CommitEdit(2, app.FieldClienteID, "cuatro"); !errors.Is(err, app.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if _, _, err := ws.CommitEdit(2, app.Field("selected"), "true"); !errors.Is(err, app.ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestSnapshot_UnknownClientAndTotals(t *testing.T) {
	ws := loadedWorkspace(t)
	if _, _, err := ws.CommitEdit(1, app.FieldClienteID, "77"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{3, 4} {
		if err := ws.ToggleSelection(id); err != nil {
			t.Fatal(err)
		}
	}

	snap := ws.Snapshot()
	if snap.Templates[0].ClienteNombre != domain.UnknownClientName {
		t.Errorf("expected fallback client name, got %q", snap.Templates[0].ClienteNombre)
	}
	if snap.SelectedCount != 2 {
		t.Errorf("expected 2 selected, got %d", snap.SelectedCount)
	}
	if snap.SelectedTotalDisplay != "$235.000,00" {
		t.Errorf("expected $235.000,00, got %s", snap.SelectedTotalDisplay)
	}
	if snap.Templates[1].MontoDisplay != "$85.000,00" {
		t.Errorf("expected $85.000,00, got %s", snap.Templates[1].MontoDisplay)
	}

	if _, _, err := ws.DeleteTemplate(2); err != nil {
		t.Fatal(err)
	}
	if got := ws.Snapshot().SelectedTotal; !got.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("expected total 150000 after delete, got %s", got)
	}
}

func TestSendPhases(t *testing.T) {
	ws := app.NewWorkspace()
	if _, _, err := ws.RequestSend(); !errors.Is(err, app.ErrNothingSelected) {
		t.Fatalf("expected ErrNothingSelected on empty workspace, got %v", err)
	}
	if ws.Snapshot().SendPhase != app.PhaseIdle {
		t.Fatal("request without selection must stay idle")
	}

	ws = loadedWorkspace(t)
	n, total, err := ws.RequestSend()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 || !total.Equal(decimal.NewFromInt(450000)) {
		t.Errorf("expected 4 / 450000, got %d / %s", n, total)
	}
	if ws.Snapshot().SendPhase != app.PhaseConfirming {
		t.Fatal("expected confirming")
	}
	if err := ws.CancelSend(); err != nil {
		t.Fatal(err)
	}
	if ws.Snapshot().SendPhase != app.PhaseIdle {
		t.Fatal("expected idle after cancel")
	}
	if err := ws.CancelSend(); !errors.Is(err, app.ErrNotConfirming) {
		t.Errorf("expected ErrNotConfirming, got %v", err)
	}
}

func TestWorkspaces(t *testing.T) {
	reg := app.NewWorkspaces()
	a := reg.Open("tok")
	got, created := reg.Get("tok")
	if created || got != a {
		t.Fatal("expected the opened workspace")
	}
	reg.Discard("tok")
	got, created = reg.Get("tok")
	if !created || got == a {
		t.Fatal("expected a fresh workspace after discard")
	}
}

func TestNewWorkspace_StartsLoading(t *testing.T) {
	snap := app.NewWorkspace().Snapshot()
	if !snap.Loading {
		t.Error("a fresh workspace must report loading until its first sync ends")
	}
	if len(snap.Templates) != 0 || snap.Error != "" {
		t.Errorf("expected an empty workspace, got %+v", snap)
	}
}
