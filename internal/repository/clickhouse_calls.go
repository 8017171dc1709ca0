package repository

import (
	"context"
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// CHCallsRepository is the reporting copy of the call journal in ClickHouse.
type CHCallsRepository interface {
	InsertBatch(ctx context.Context, rows []model.CallRecord) error
	List(ctx context.Context, f model.CallFilter) ([]model.CallRecord, error)
}

type chCallsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHCallsRepository(ch *sqlx.DB) CHCallsRepository {
	return &chCallsRepository{ch: ch}
}

// InsertBatch uses the clickhouse-go batch protocol: one prepared insert per
// transaction, sent as a single block on commit.
func (r *chCallsRepository) InsertBatch(ctx context.Context, rows []model.CallRecord) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO econnect.calls
		    (id, operation, mode, endpoint, error, kind, message, duration_ms, created_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Operation, c.Mode, c.Endpoint, uint8(c.Error), c.Kind, c.Message, c.DurationMs, c.CreatedAt,
		); err != nil {
			return fmt.Errorf("append %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (r *chCallsRepository) List(ctx context.Context, f model.CallFilter) ([]model.CallRecord, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := `
		SELECT id, operation, mode, endpoint, toInt64(error) AS error, kind, message, duration_ms, created_at
		FROM econnect.calls
		WHERE 1 = 1
	`
	var args []any

	if f.Operation != "" {
		q += " AND operation = ?"
		args = append(args, f.Operation)
	}
	if f.FailedOnly {
		q += " AND error = 1"
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var rows []model.CallRecord
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
