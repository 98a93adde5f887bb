// Package tusfacturas implements domain.InvoicingBackend over the invoicing
// service's JSON HTTP API.
package tusfacturas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"facturas/internal/domain"
)

// DefaultBaseURL is used when no backend origin is configured.
const DefaultBaseURL = "http://localhost:3001"

// Client talks to the invoicing backend.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ domain.InvoicingBackend = (*Client)(nil)

// New creates a Client for baseURL. A zero timeout leaves the transport
// default in place.
func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// Ping calls the backend health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/test", nil, nil)
}

// ListClients fetches the full client list.
func (c *Client) ListClients(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	if err := c.do(ctx, http.MethodGet, "/api/clientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTemplates fetches the full template list.
func (c *Client) ListTemplates(ctx context.Context) ([]domain.InvoiceTemplate, error) {
	var out []domain.InvoiceTemplate
	if err := c.do(ctx, http.MethodGet, "/api/templates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveTemplates overwrites the backend's template list.
func (c *Client) SaveTemplates(ctx context.Context, templates []domain.InvoiceTemplate) error {
	if templates == nil {
		templates = []domain.InvoiceTemplate{}
	}
	body := map[string]any{"templates": templates}
	return c.do(ctx, http.MethodPost, "/api/templates/guardar", body, nil)
}

// SaveClients overwrites the backend's client list.
func (c *Client) SaveClients(ctx context.Context, clients []domain.Client) error {
	if clients == nil {
		clients = []domain.Client{}
	}
	body := map[string]any{"clientes": clients}
	return c.do(ctx, http.MethodPost, "/api/clientes/guardar", body, nil)
}

type addClientResponse struct {
	Success bool           `json:"success"`
	Cliente *domain.Client `json:"cliente"`
	Error   string         `json:"error"`
}

// AddClient creates the client, or associates an existing one matched by
// documento, and returns the backend's canonical record.
func (c *Client) AddClient(ctx context.Context, nc domain.NewClient) (*domain.Client, error) {
	var out addClientResponse
	err := c.do(ctx, http.MethodPost, "/api/clientes/agregar", map[string]any{"cliente": nc}, &out)
	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode < 500 && statusErr.Message != "" {
		return nil, &domain.RejectedError{Message: statusErr.Message}
	}
	if err != nil {
		return nil, err
	}
	if !out.Success || out.Cliente == nil {
		msg := out.Error
		if msg == "" {
			msg = "no se pudo agregar el cliente"
		}
		return nil, &domain.RejectedError{Message: msg}
	}
	return out.Cliente, nil
}

// SendInvoices submits the given templates as one batch.
func (c *Client) SendInvoices(ctx context.Context, templates []domain.InvoiceTemplate) (*domain.SendReport, error) {
	var out domain.SendReport
	if err := c.do(ctx, http.MethodPost, "/api/enviar-facturas", map[string]any{"templates": templates}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.StatusError{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling
// back to the raw text.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(b))
}
