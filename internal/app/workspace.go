package app

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

// ConnectionStatus is the backend reachability shown in the header.
type ConnectionStatus string

const (
	ConnectionChecking  ConnectionStatus = "checking"
	ConnectionConnected ConnectionStatus = "connected"
	ConnectionError     ConnectionStatus = "error"
)

// SendPhase is the state of the batch sender.
type SendPhase string

const (
	PhaseIdle            SendPhase = "idle"
	PhaseConfirming      SendPhase = "confirming"
	PhaseSending         SendPhase = "sending"
	PhaseSucceeded       SendPhase = "succeeded"
	PhasePartiallyFailed SendPhase = "partially_failed"
	PhaseFailed          SendPhase = "failed"
)

// Field names a template field that can be edited inline.
type Field string

const (
	FieldClienteID Field = "clienteId"
	FieldConcepto  Field = "concepto"
	FieldMonto     Field = "monto"
)

// ParseField validates a field name coming from the outside.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldClienteID, FieldConcepto, FieldMonto:
		return f, nil
	}
	return "", ErrUnknownField
}

// EditPointer identifies the one field currently in edit state.
type EditPointer struct {
	TemplateID int64 `json:"templateId"`
	Field      Field `json:"field"`
}

// Workspace is the application state of one operator session: cached lists,
// edit pointer, flags and the batch sender phase. Methods never perform I/O;
// services call the backend and apply results here.
type Workspace struct {
	mu sync.Mutex

	clients   []domain.Client
	templates []domain.InvoiceTemplate
	editing   *EditPointer

	connection   ConnectionStatus
	demo         bool
	lastSync     time.Time
	loading      bool
	sending      bool
	addingClient bool
	errMsg       string
	result       *domain.SendReport
	phase        SendPhase
}

// NewWorkspace returns an empty workspace waiting for its first sync.
func NewWorkspace() *Workspace {
	return &Workspace{
		clients:    []domain.Client{},
		templates:  []domain.InvoiceTemplate{},
		connection: ConnectionChecking,
		loading:    true,
		phase:      PhaseIdle,
	}
}

// Clients returns a copy of the cached client list.
func (w *Workspace) Clients() []domain.Client {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Client(nil), w.clients...)
}

// Templates returns a copy of the cached template list.
func (w *Workspace) Templates() []domain.InvoiceTemplate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.templatesLocked()
}

// ListVersion orders list copies handed out for persisting. It is stamped
// while the workspace lock is held, so a higher version is a newer list.
type ListVersion uint64

var listVersions atomic.Uint64

func nextListVersion() ListVersion {
	return ListVersion(listVersions.Add(1))
}

func (w *Workspace) templatesLocked() []domain.InvoiceTemplate {
	return append([]domain.InvoiceTemplate(nil), w.templates...)
}

func (w *Workspace) indexOf(id int64) int {
	for i, t := range w.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ToggleSelection flips the selected flag of one template.
func (w *Workspace) ToggleSelection(id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return ErrTemplateNotFound
	}
	w.templates[i].Selected = !w.templates[i].Selected
	return nil
}

// DeleteTemplate removes a template and returns the resulting list.
func (w *Workspace) DeleteTemplate(id int64) ([]domain.InvoiceTemplate, ListVersion, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return nil, 0, ErrTemplateNotFound
	}
	w.templates = append(w.templates[:i:i], w.templates[i+1:]...)
	if w.editing != nil && w.editing.TemplateID == id {
		w.editing = nil
	}
	return w.templatesLocked(), nextListVersion(), nil
}

// AddTemplate appends a new selected template for the first client.
func (w *Workspace) AddTemplate() (domain.InvoiceTemplate, []domain.InvoiceTemplate, ListVersion, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.clients) == 0 {
		return domain.InvoiceTemplate{}, nil, 0, ErrNoClients
	}
	t := domain.InvoiceTemplate{
		ID:        domain.NextTemplateID(w.templates),
		ClienteID: w.clients[0].ID,
		Concepto:  DefaultConcepto,
		Monto:     decimal.Zero,
		Selected:  true,
	}
	w.templates = append(w.templates, t)
	return t, w.templatesLocked(), nextListVersion(), nil
}

// BeginEdit moves the edit pointer to (id, field) and returns the value to
// seed the input with.
func (w *Workspace) BeginEdit(id int64, field Field) (string, error) {
	if _, err := ParseField(string(field)); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return "", ErrTemplateNotFound
	}
	w.editing = &EditPointer{TemplateID: id, Field: field}
	t := w.templates[i]
	switch field {
	case FieldClienteID:
		return strconv.FormatInt(t.ClienteID, 10), nil
	case FieldMonto:
		return t.Monto.StringFixed(2), nil
	default:
		return t.Concepto, nil
	}
}

// CancelEdit leaves edit state without changing anything.
func (w *Workspace) CancelEdit() {
	w.mu.Lock()
	w.editing = nil
	w.mu.Unlock()
}

// CommitEdit applies raw to the field, leaves edit state and returns the
// resulting list.
func (w *Workspace) CommitEdit(id int64, field Field, raw string) ([]domain.InvoiceTemplate, ListVersion, error) {
	if _, err := ParseField(string(field)); err != nil {
		return nil, 0, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return nil, 0, ErrTemplateNotFound
	}
	switch field {
	case FieldClienteID:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, 0, ErrInvalidValue
		}
		w.templates[i].ClienteID = v
	case FieldMonto:
		w.templates[i].Monto = domain.ParseMonto(raw)
	case FieldConcepto:
		w.templates[i].Concepto = raw
	}
	w.editing = nil
	return w.templatesLocked(), nextListVersion(), nil
}

// AppendClient adds c unless a client with the same id is cached already.
// It reports whether the list changed.
func (w *Workspace) AppendClient(c domain.Client) ([]domain.Client, ListVersion, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, existing := range w.clients {
		if existing.ID == c.ID {
			return append([]domain.Client(nil), w.clients...), 0, false
		}
	}
	w.clients = append(w.clients, c)
	return append([]domain.Client(nil), w.clients...), nextListVersion(), true
}

// --- sync state ---

func (w *Workspace) beginLoad() {
	w.mu.Lock()
	w.loading = true
	w.errMsg = ""
	w.mu.Unlock()
}

func (w *Workspace) replace(clients []domain.Client, templates []domain.InvoiceTemplate, at time.Time, demo bool) {
	if clients == nil {
		clients = []domain.Client{}
	}
	if templates == nil {
		templates = []domain.InvoiceTemplate{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients = clients
	w.templates = templates
	w.editing = nil
	w.lastSync = at
	w.loading = false
	w.demo = demo
}

func (w *Workspace) setConnection(c ConnectionStatus, errMsg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connection = c
	if errMsg != "" {
		w.errMsg = errMsg
		w.loading = false
	}
}

func (w *Workspace) loadFailed(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	w.connection = ConnectionError
	w.errMsg = msg
}

func (w *Workspace) setAddingClient(v bool) {
	w.mu.Lock()
	w.addingClient = v
	w.mu.Unlock()
}

// --- batch sender ---

// RequestSend moves to the confirming phase when something is selected and
// returns the count and total for the confirmation prompt.
func (w *Workspace) RequestSend() (int, decimal.Decimal, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSending {
		return 0, decimal.Zero, ErrSendInProgress
	}
	n := domain.SelectedCount(w.templates)
	if n == 0 {
		return 0, decimal.Zero, ErrNothingSelected
	}
	w.phase = PhaseConfirming
	return n, domain.SelectedTotal(w.templates), nil
}

// CancelSend returns from confirming to idle.
func (w *Workspace) CancelSend() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseConfirming {
		return ErrNotConfirming
	}
	w.phase = PhaseIdle
	return nil
}

// DismissSend clears a finished send's outcome.
func (w *Workspace) DismissSend() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSending || w.phase == PhaseConfirming {
		return
	}
	w.phase = PhaseIdle
	w.result = nil
	w.errMsg = ""
}

// beginSend snapshots the selection and enters the sending phase.
func (w *Workspace) beginSend() ([]domain.InvoiceTemplate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseConfirming {
		return nil, ErrNotConfirming
	}
	batch := domain.SelectedTemplates(w.templates)
	if len(batch) == 0 {
		w.phase = PhaseIdle
		return nil, ErrNothingSelected
	}
	w.phase = PhaseSending
	w.sending = true
	w.errMsg = ""
	w.result = nil
	return batch, nil
}

// finishSend applies the outcome of a send. On full success the templates in
// batch are deselected and the new list is returned for persisting.
func (w *Workspace) finishSend(batch []domain.InvoiceTemplate, report *domain.SendReport, sendErr error) ([]domain.InvoiceTemplate, ListVersion, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sending = false
	if sendErr != nil {
		w.phase = PhaseFailed
		w.errMsg = MsgSendFailed
		return nil, 0, false
	}
	w.result = report
	if report.Fallidas > 0 {
		w.phase = PhasePartiallyFailed
		return nil, 0, false
	}
	sent := make(map[int64]struct{}, len(batch))
	for _, t := range batch {
		sent[t.ID] = struct{}{}
	}
	for i := range w.templates {
		if _, ok := sent[w.templates[i].ID]; ok {
			w.templates[i].Selected = false
		}
	}
	w.phase = PhaseSucceeded
	return w.templatesLocked(), nextListVersion(), true
}

// --- snapshot ---

// TemplateRow is a template decorated for display.
type TemplateRow struct {
	domain.InvoiceTemplate
	ClienteNombre string `json:"clienteNombre"`
	MontoDisplay  string `json:"montoDisplay"`
}

// Snapshot is a consistent read-only view of a workspace.
type Snapshot struct {
	Connection           ConnectionStatus   `json:"connection"`
	Demo                 bool               `json:"demo"`
	LastSync             *time.Time         `json:"lastSync,omitempty"`
	Loading              bool               `json:"loading"`
	Sending              bool               `json:"sending"`
	AddingClient         bool               `json:"addingClient"`
	Error                string             `json:"error,omitempty"`
	Result               *domain.SendReport `json:"result,omitempty"`
	SendPhase            SendPhase          `json:"sendPhase"`
	Editing              *EditPointer       `json:"editing,omitempty"`
	Clients              []domain.Client    `json:"clients"`
	Templates            []TemplateRow      `json:"templates"`
	SelectedCount        int                `json:"selectedCount"`
	SelectedTotal        decimal.Decimal    `json:"selectedTotal"`
	SelectedTotalDisplay string             `json:"selectedTotalDisplay"`
}

// Snapshot returns the current state with derived values recomputed.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		Connection:    w.connection,
		Demo:          w.demo,
		Loading:       w.loading,
		Sending:       w.sending,
		AddingClient:  w.addingClient,
		Error:         w.errMsg,
		Result:        w.result,
		SendPhase:     w.phase,
		Clients:       append([]domain.Client{}, w.clients...),
		Templates:     make([]TemplateRow, 0, len(w.templates)),
		SelectedCount: domain.SelectedCount(w.templates),
		SelectedTotal: domain.SelectedTotal(w.templates),
	}
	if !w.lastSync.IsZero() {
		ts := w.lastSync
		s.LastSync = &ts
	}
	if w.editing != nil {
		p := *w.editing
		s.Editing = &p
	}
	for _, t := range w.templates {
		s.Templates = append(s.Templates, TemplateRow{
			InvoiceTemplate: t,
			ClienteNombre:   domain.ClientName(w.clients, t.ClienteID),
			MontoDisplay:    "$" + domain.FormatMonto(t.Monto),
		})
	}
	s.SelectedTotalDisplay = "$" + domain.FormatMonto(s.SelectedTotal)
	return s
}

// Workspaces keeps one workspace per session token.
type Workspaces struct {
	mu    sync.Mutex
	items map[string]*Workspace
}

// NewWorkspaces creates an empty registry.
func NewWorkspaces() *Workspaces {
	return &Workspaces{items: make(map[string]*Workspace)}
}

// Open replaces any workspace bound to token with a fresh one.
func (r *Workspaces) Open(token string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := NewWorkspace()
	r.items[token] = ws
	return ws
}

// Get returns the workspace for token, creating it when missing (e.g. a
// session that outlived a restart). created reports the latter.
func (r *Workspaces) Get(token string) (ws *Workspace, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.items[token]; ok {
		return ws, false
	}
	ws = NewWorkspace()
	r.items[token] = ws
	return ws, true
}

// Retain keeps only the workspaces whose token satisfies keep and reports
// how many were dropped. keep runs without the registry lock held.
func (r *Workspaces) Retain(keep func(token string) bool) int {
	r.mu.Lock()
	tokens := make([]string, 0, len(r.items))
	for token := range r.items {
		tokens = append(tokens, token)
	}
	r.mu.Unlock()

	dropped := 0
	for _, token := range tokens {
		if keep(token) {
			continue
		}
		r.Discard(token)
		dropped++
	}
	return dropped
}

// Len reports how many workspaces are held.
func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Discard drops the cached state bound to token.
func (r *Workspaces) Discard(token string) {
	r.mu.Lock()
	delete(r.items, token)
	r.mu.Unlock()
}
