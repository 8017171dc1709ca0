package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

type ClientsRepository interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*model.APIClient, error)
	Upsert(ctx context.Context, c model.APIClient) error
}

type ClientsRepositoryImpl struct {
	db *sqlx.DB
}

func NewClientsRepository(db *sqlx.DB) *ClientsRepositoryImpl {
	return &ClientsRepositoryImpl{db: db}
}

var _ ClientsRepository = (*ClientsRepositoryImpl)(nil)

func (r *ClientsRepositoryImpl) GetByAPIKey(ctx context.Context, apiKey string) (*model.APIClient, error) {
	var c model.APIClient
	err := r.db.GetContext(ctx, &c, `
		SELECT id, name, api_key, status, rate_limit_rps, created_at, updated_at
		  FROM api_clients
		 WHERE api_key = ? LIMIT 1
	`, apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert is idempotent on api_key (UNIQUE).
func (r *ClientsRepositoryImpl) Upsert(ctx context.Context, c model.APIClient) error {
	const q = `
		INSERT INTO api_clients
		    (name, api_key, status, rate_limit_rps, created_at, updated_at)
		VALUES
		    (?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		    name           = VALUES(name),
		    status         = VALUES(status),
		    rate_limit_rps = VALUES(rate_limit_rps),
		    updated_at     = VALUES(updated_at)
	`
	_, err := r.db.ExecContext(ctx, q, c.Name, c.APIKey, c.Status, c.RateLimitRPS)
	return err
}
