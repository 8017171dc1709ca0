package worker

import (
	"context"
	"errors"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/kafka"
	"github.com/jmehdipour/econnect-gateway/internal/metrics"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxRelay publishes pending outbox rows to Kafka and marks them
// published. Delivery is at-least-once: a crash between publish and mark
// republishes the batch.
//
// Events Kafka will never accept (see kafka.Rejected) are parked as failed
// so they cannot block the rows behind them; for submission events the
// submission row is failed too.
type OutboxRelay struct {
	Outbox      repository.OutboxRepository
	Submissions repository.SubmissionsRepository // optional
	Producer    Publisher
	Log         *zap.Logger
	BatchSize   int
	Interval    time.Duration
}

func NewOutboxRelay(outbox repository.OutboxRepository, subs repository.SubmissionsRepository, producer Publisher, log *zap.Logger) *OutboxRelay {
	return &OutboxRelay{
		Outbox:      outbox,
		Submissions: subs,
		Producer:    producer,
		Log:         log,
		BatchSize:   100,
		Interval:    500 * time.Millisecond,
	}
}

func toMessage(e model.OutboxEvent) kafka.Message {
	return kafka.Message{
		Topic: e.Topic,
		Key:   []byte(e.AggregateID),
		Value: e.Payload,
	}
}

// RelayOnce moves at most one batch and returns how many events it published.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	events, err := r.Outbox.FetchPending(ctx, r.BatchSize)
	if err != nil || len(events) == 0 {
		return 0, err
	}

	msgs := make([]kafka.Message, 0, len(events))
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, toMessage(e))
		ids = append(ids, e.ID)
	}

	err = r.Producer.Publish(ctx, msgs...)
	if err != nil && kafka.Rejected(err) {
		return r.relayEach(ctx, events)
	}
	if err != nil {
		return 0, err
	}
	if err := r.Outbox.MarkPublished(ctx, ids); err != nil {
		return len(ids), err
	}
	return len(ids), nil
}

// relayEach publishes events one by one so a rejected event only costs
// itself. It stops at the first transient error and leaves the rest pending.
func (r *OutboxRelay) relayEach(ctx context.Context, events []model.OutboxEvent) (int, error) {
	var published []int64
	var stopErr error

	for _, e := range events {
		err := r.Producer.Publish(ctx, toMessage(e))
		if err == nil {
			published = append(published, e.ID)
			continue
		}
		if !kafka.Rejected(err) {
			stopErr = err
			break
		}
		if ferr := r.park(ctx, e, err); ferr != nil {
			stopErr = ferr
			break
		}
	}

	if err := r.Outbox.MarkPublished(ctx, published); err != nil {
		return len(published), errors.Join(stopErr, err)
	}
	return len(published), stopErr
}

func (r *OutboxRelay) park(ctx context.Context, e model.OutboxEvent, cause error) error {
	reason := "kafka rejected event: " + cause.Error()
	if err := r.Outbox.MarkFailed(ctx, []int64{e.ID}, reason); err != nil {
		return err
	}
	metrics.OutboxRejected.Inc()
	r.log().Error("outbox event rejected by kafka",
		zap.Int64("outbox_id", e.ID),
		zap.String("aggregate_id", e.AggregateID),
		zap.Int("bytes", len(e.Payload)),
		zap.Error(cause),
	)

	if e.Aggregate != model.AggregateSubmission || r.Submissions == nil {
		return nil
	}
	if err := r.Submissions.UpdateResult(ctx, nil, e.AggregateID, model.SubmissionFailed, "", "", reason); err != nil {
		r.log().Error("fail submission failed", zap.String("submission_id", e.AggregateID), zap.Error(err))
	}
	return nil
}

func (r *OutboxRelay) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Run relays until ctx is cancelled. Full batches are followed immediately
// by the next one.
func (r *OutboxRelay) Run(ctx context.Context) error {
	if r.BatchSize <= 0 {
		r.BatchSize = 100
	}
	if r.Interval <= 0 {
		r.Interval = 500 * time.Millisecond
	}
	if r.Log == nil {
		r.Log = zap.NewNop()
	}

	tick := time.NewTicker(r.Interval)
	defer tick.Stop()

	for {
		n, err := r.RelayOnce(ctx)
		if err != nil && ctx.Err() == nil {
			r.Log.Warn("outbox relay failed", zap.Error(err))
		}
		if n > 0 {
			r.Log.Debug("outbox relayed", zap.Int("events", n))
		}
		if n >= r.BatchSize && err == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}
