package repository

import (
	"context"

	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// CallsRepository persists the call journal in MySQL.
type CallsRepository interface {
	InsertBatch(ctx context.Context, rows []model.CallRecord) error
}

type CallsRepositoryImpl struct {
	db *sqlx.DB
}

func NewCallsRepository(db *sqlx.DB) *CallsRepositoryImpl {
	return &CallsRepositoryImpl{db: db}
}

var _ CallsRepository = (*CallsRepositoryImpl)(nil)

// InsertBatch writes all rows with one multi-row statement. Replayed IDs are
// ignored.
func (r *CallsRepositoryImpl) InsertBatch(ctx context.Context, rows []model.CallRecord) error {
	if len(rows) == 0 {
		return nil
	}
	const q = `
		INSERT IGNORE INTO econnect_calls
		    (id, operation, mode, endpoint, error, kind, message, duration_ms, created_at)
		VALUES
		    (:id, :operation, :mode, :endpoint, :error, :kind, :message, :duration_ms, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, q, rows)
	return err
}
