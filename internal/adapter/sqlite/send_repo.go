package sqlite

import (
	"context"
	"encoding/json"

	"facturas/internal/domain"

	"github.com/shopspring/decimal"
)

var _ domain.SendLogRepository = (*DB)(nil)

// AddSendRecord inserts the audit row for a batch send.
func (d *DB) AddSendRecord(ctx context.Context, rec domain.SendRecord) error {
	ids, err := json.Marshal(rec.TemplateIDs)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx,
		`INSERT INTO send_records (id, username, sent_at, template_ids, amount, total, exitosas, fallidas, modo_prueba, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Username, formatTime(rec.SentAt), string(ids), rec.Amount.StringFixed(2),
		rec.Total, rec.Exitosas, rec.Fallidas, rec.ModoPrueba, rec.Error,
	)
	return err
}

// ListRecentSendRecords returns the most recent send records up to limit.
func (d *DB) ListRecentSendRecords(ctx context.Context, limit int) ([]domain.SendRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, username, sent_at, template_ids, amount, total, exitosas, fallidas, modo_prueba, error
		 FROM send_records ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.SendRecord, 0, limit)
	for rows.Next() {
		var rec domain.SendRecord
		var sentAt, ids, amount string
		if err := rows.Scan(&rec.ID, &rec.Username, &sentAt, &ids, &amount,
			&rec.Total, &rec.Exitosas, &rec.Fallidas, &rec.ModoPrueba, &rec.Error); err != nil {
			return nil, err
		}
		if rec.SentAt, err = parseTime(sentAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &rec.TemplateIDs); err != nil {
			return nil, err
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
