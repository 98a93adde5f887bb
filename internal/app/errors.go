package app

import (
	"errors"

	"facturas/internal/domain"
)

var (
	// ErrConnectionUnreachable indicates that the backend health check failed.
	ErrConnectionUnreachable = errors.New("invoicing backend unreachable")
	// ErrFetchFailed indicates that loading clients or templates failed.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrSendFailed indicates that the batch send request itself failed.
	ErrSendFailed = errors.New("send failed")
	// ErrValidation indicates missing or malformed user input.
	ErrValidation = errors.New("validation failed")

	ErrNothingSelected  = errors.New("no templates selected")
	ErrNotConfirming    = errors.New("no send awaiting confirmation")
	ErrSendInProgress   = errors.New("send already in progress")
	ErrNoClients        = errors.New("no clients available")
	ErrTemplateNotFound = errors.New("template not found")
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidValue     = errors.New("invalid value")
)

// User-facing texts shown by the console.
const (
	MsgInvalidCredentials = "Usuario o contraseña incorrectos"
	MsgUnreachable        = "No se pudo conectar con TusFacturas"
	MsgConnectionError    = "Error de conexión con el servidor"
	MsgFetchFailed        = "Error al cargar datos de TusFacturas"
	MsgSendFailed         = "Error al enviar facturas"
	MsgNoClients          = "Primero agregá un cliente"
	MsgClientRequired     = "Nombre y documento son obligatorios"
	MsgNothingSelected    = "No hay facturas seleccionadas"
)

// Message returns the text to show the operator for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrConnectionUnreachable):
		return MsgConnectionError
	case errors.Is(err, ErrFetchFailed):
		return MsgFetchFailed
	case errors.Is(err, ErrSendFailed):
		return MsgSendFailed
	case errors.Is(err, domain.ErrUnavailable):
		return MsgConnectionError
	case errors.Is(err, ErrNoClients):
		return MsgNoClients
	case errors.Is(err, ErrValidation):
		return MsgClientRequired
	case errors.Is(err, ErrNothingSelected):
		return MsgNothingSelected
	}
	return err.Error()
}
