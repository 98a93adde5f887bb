package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SendRecord is the audit entry written for every confirmed batch send.
type SendRecord struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	SentAt      time.Time       `json:"sentAt"`
	TemplateIDs []int64         `json:"templateIds"`
	Amount      decimal.Decimal `json:"amount"`
	Total       int             `json:"total"`
	Exitosas    int             `json:"exitosas"`
	Fallidas    int             `json:"fallidas"`
	ModoPrueba  bool            `json:"modoPrueba"`
	Error       string          `json:"error,omitempty"`
}

// SendLogRepository is the port for send history persistence.
type SendLogRepository interface {
	AddSendRecord(ctx context.Context, rec SendRecord) error
	ListRecentSendRecords(ctx context.Context, limit int) ([]SendRecord, error)
}
