package domain

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// The invoicing backend stores amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// UnknownClientName is displayed for templates whose clienteId does not
// resolve to a cached client.
const UnknownClientName = "Cliente no encontrado"

// Client is a customer invoiced by the business owner.
type Client struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Email     string `json:"email,omitempty"`
	Documento string `json:"documento"`
}

// NewClient is the payload for the backend's create-or-associate endpoint.
type NewClient struct {
	Nombre    string `json:"nombre"`
	Email     string `json:"email"`
	Documento string `json:"documento"`
}

// InvoiceTemplate is a recurring invoice pattern awaiting the monthly send.
// Concepto may carry placeholder tokens that the backend expands at send
// time.
type InvoiceTemplate struct {
	ID        int64           `json:"id"`
	ClienteID int64           `json:"clienteId"`
	Concepto  string          `json:"concepto"`
	Monto     decimal.Decimal `json:"monto"`
	Selected  bool            `json:"selected"`
}

// SendReport is the backend's answer to a batch send. Detalles is kept
// verbatim.
type SendReport struct {
	Total      int             `json:"total"`
	Exitosas   int             `json:"exitosas"`
	Fallidas   int             `json:"fallidas"`
	Detalles   json.RawMessage `json:"detalles,omitempty"`
	ModoPrueba bool            `json:"modo_prueba,omitempty"`
}

// InvoicingBackend is the driven port for the external invoicing service.
type InvoicingBackend interface {
	Ping(ctx context.Context) error
	ListClients(ctx context.Context) ([]Client, error)
	ListTemplates(ctx context.Context) ([]InvoiceTemplate, error)
	SaveTemplates(ctx context.Context, templates []InvoiceTemplate) error
	SaveClients(ctx context.Context, clients []Client) error
	AddClient(ctx context.Context, c NewClient) (*Client, error)
	SendInvoices(ctx context.Context, templates []InvoiceTemplate) (*SendReport, error)
}
