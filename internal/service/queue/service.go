package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/jmehdipour/econnect-gateway/internal/service/submit"
	"github.com/jmehdipour/econnect-gateway/internal/util"
	"github.com/jmoiron/sqlx"
)

const SubmissionsKafkaTopic = "econnect.submissions"

// Service atomically persists queued submissions and their outbox events.
type Service struct {
	db          *sqlx.DB
	submissions repository.SubmissionsRepository
	outbox      repository.OutboxRepository
	topic       string
}

// New constructs the queue service. An empty topic uses SubmissionsKafkaTopic.
func New(
	db *sqlx.DB,
	submissionsRepo repository.SubmissionsRepository,
	outboxRepo repository.OutboxRepository,
	topic string,
) *Service {
	if topic == "" {
		topic = SubmissionsKafkaTopic
	}
	return &Service{
		db:          db,
		submissions: submissionsRepo,
		outbox:      outboxRepo,
		topic:       topic,
	}
}

// Enqueue validates the submission, generates a ULID, and writes into
// `econnect_submissions` and `outbox` within a single transaction.
// Returns the generated submission ID.
func (s *Service) Enqueue(ctx context.Context, clientID int64, sub model.Submission) (string, error) {
	if err := submit.Validate(sub); err != nil {
		return "", err
	}

	id := util.NewID()

	payload, err := json.Marshal(model.SubmissionEnvelope{
		ID:         id,
		ClientID:   clientID,
		Submission: sub,
	})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.submissions.InsertQueued(ctx, tx, model.SubmissionRecord{
		ID:        id,
		ClientID:  clientID,
		Reference: sub.Reference,
	}); err != nil {
		return "", fmt.Errorf("insert submission queued: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, model.AggregateSubmission, id, s.topic, payload); err != nil {
		return "", fmt.Errorf("insert outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}
