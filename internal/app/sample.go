package app

import (
	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	conceptoMesAnterior = "{MM_AAAA_ANTERIOR_TEXTO}"
	conceptoMesActual   = "{MM_AAAA_ACTUAL_TEXTO}"

	// DefaultConcepto seeds templates created by hand.
	DefaultConcepto = "Honorarios Profesionales - " + conceptoMesActual
)

// SampleClients is the demo dataset shown when the backend is unreachable
// and demo fallback is enabled.
func SampleClients() []domain.Client {
	return []domain.Client{
		{ID: 1, Nombre: "Empresa ABC S.A.", Email: "facturacion@empresa-abc.com", Documento: "30123456789"},
		{ID: 2, Nombre: "Comercial XYZ Ltda.", Email: "admin@comercial-xyz.com", Documento: "20987654321"},
		{ID: 3, Nombre: "Distribuidora Norte", Email: "ventas@distri-norte.com", Documento: "27456789123"},
		{ID: 4, Nombre: "Supermercado Central", Email: "contabilidad@super-central.com", Documento: "30789123456"},
	}
}

// SampleTemplates pairs with SampleClients.
func SampleTemplates() []domain.InvoiceTemplate {
	return []domain.InvoiceTemplate{
		{ID: 1, ClienteID: 1, Concepto: "Honorarios Profesionales - " + conceptoMesAnterior, Monto: decimal.NewFromInt(150000), Selected: true},
		{ID: 2, ClienteID: 2, Concepto: "Servicios de consultoría - " + conceptoMesAnterior, Monto: decimal.NewFromInt(85000), Selected: true},
		{ID: 3, ClienteID: 3, Concepto: "Asesoramiento técnico - " + conceptoMesAnterior, Monto: decimal.NewFromInt(120000), Selected: true},
		{ID: 4, ClienteID: 4, Concepto: "Auditoría mensual - " + conceptoMesAnterior, Monto: decimal.NewFromInt(95000), Selected: true},
	}
}
