package model

import "time"

// AggregateSubmission tags outbox rows that carry a SubmissionEnvelope.
const AggregateSubmission = "submission"

// OutboxEvent is a pending Kafka message written in the same transaction as
// the row it describes.
type OutboxEvent struct {
	ID          int64      `db:"id"`
	Aggregate   string     `db:"aggregate"`    // AggregateSubmission
	AggregateID string     `db:"aggregate_id"` // submission ULID
	Topic       string     `db:"topic"`
	Payload     []byte     `db:"payload"`
	CreatedAt   time.Time  `db:"created_at"`
	PublishedAt *time.Time `db:"published_at"`
}
