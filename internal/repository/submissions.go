package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// SubmissionsRepository tracks asynchronous submissions.
type SubmissionsRepository interface {
	InsertQueued(ctx context.Context, tx *sqlx.Tx, s model.SubmissionRecord) error
	// Claim moves a queued row to processing. It reports false when the row
	// is missing or was already claimed.
	Claim(ctx context.Context, id string) (bool, error)
	UpdateResult(ctx context.Context, tx *sqlx.Tx, id string, status model.SubmissionStatus, jobID, orderID, errMsg string) error
	Get(ctx context.Context, id string) (*model.SubmissionRecord, error)
}

type SubmissionsRepositoryImpl struct {
	db *sqlx.DB
}

func NewSubmissionsRepository(db *sqlx.DB) *SubmissionsRepositoryImpl {
	return &SubmissionsRepositoryImpl{db: db}
}

var _ SubmissionsRepository = (*SubmissionsRepositoryImpl)(nil)

// InsertQueued inserts a new submission row with status=queued.
func (r *SubmissionsRepositoryImpl) InsertQueued(ctx context.Context, tx *sqlx.Tx, s model.SubmissionRecord) error {
	const q = `
		INSERT INTO econnect_submissions
		    (id, client_id, reference, status, job_id, order_id, error, created_at, updated_at)
		VALUES
		    (?,  ?,         ?,         'queued', '',   '',       '',    NOW(),      NOW())
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, s.ID, s.ClientID, s.Reference)
		return err
	})
}

func (r *SubmissionsRepositoryImpl) Claim(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE econnect_submissions
		   SET status = 'processing', updated_at = NOW()
		 WHERE id = ? AND status = 'queued'
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// UpdateResult records the outcome of a processed submission.
func (r *SubmissionsRepositoryImpl) UpdateResult(ctx context.Context, tx *sqlx.Tx, id string, status model.SubmissionStatus, jobID, orderID, errMsg string) error {
	const q = `
		UPDATE econnect_submissions
		   SET status = ?, job_id = ?, order_id = ?, error = ?, updated_at = NOW()
		 WHERE id = ?
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, status.String(), jobID, orderID, errMsg, id)
		return err
	})
}

func (r *SubmissionsRepositoryImpl) Get(ctx context.Context, id string) (*model.SubmissionRecord, error) {
	var s model.SubmissionRecord
	err := r.db.GetContext(ctx, &s, `
		SELECT id, client_id, reference, status, job_id, order_id, error, created_at, updated_at
		  FROM econnect_submissions
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
