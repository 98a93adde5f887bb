package postgres

import (
	"context"

	"facturas/internal/domain"

	"github.com/lib/pq"
)

var _ domain.SendLogRepository = (*DB)(nil)

// AddSendRecord inserts the audit row for a batch send.
func (d *DB) AddSendRecord(ctx context.Context, rec domain.SendRecord) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO send_records(id, username, sent_at, template_ids, amount, total, exitosas, fallidas, modo_prueba, error)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		rec.ID, rec.Username, rec.SentAt.UTC(), pq.Array(rec.TemplateIDs), rec.Amount,
		rec.Total, rec.Exitosas, rec.Fallidas, rec.ModoPrueba, rec.Error,
	)
	return err
}

// ListRecentSendRecords returns the most recent send records up to limit.
func (d *DB) ListRecentSendRecords(ctx context.Context, limit int) ([]domain.SendRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, username, sent_at, template_ids, amount, total, exitosas, fallidas, modo_prueba, error
		 FROM send_records ORDER BY sent_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.SendRecord, 0, limit)
	for rows.Next() {
		var rec domain.SendRecord
		var ids pq.Int64Array
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.SentAt, &ids, &rec.Amount,
			&rec.Total, &rec.Exitosas, &rec.Fallidas, &rec.ModoPrueba, &rec.Error); err != nil {
			return nil, err
		}
		rec.TemplateIDs = []int64(ids)
		out = append(out, rec)
	}
	return out, rows.Err()
}
