package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/kafka"
	"github.com/jmehdipour/econnect-gateway/internal/metrics"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/jmehdipour/econnect-gateway/internal/service/submit"
	"go.uber.org/zap"
)

// Source is the consuming side of a Kafka topic.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

type Submitter interface {
	Submit(ctx context.Context, sub model.Submission) (model.SubmissionResult, error)
}

// SubmitterKafka:
// - fetches submission envelopes from Kafka,
// - claims the queued submission row (redeliveries find it claimed and are skipped),
// - runs each through the eConnect workflow,
// - records the outcome on the submission row.
type SubmitterKafka struct {
	Source      Source
	Service     Submitter
	Submissions repository.SubmissionsRepository
	Log         *zap.Logger

	Workers int // number of goroutines processing messages
}

func NewSubmitterKafka(src Source, svc Submitter, subs repository.SubmissionsRepository, log *zap.Logger) *SubmitterKafka {
	return &SubmitterKafka{
		Source:      src,
		Service:     svc,
		Submissions: subs,
		Log:         log,
		Workers:     4,
	}
}

// Run starts the worker and blocks until ctx is cancelled and in-flight
// messages are done.
func (w *SubmitterKafka) Run(ctx context.Context) error {
	if w.Source == nil || w.Service == nil || w.Submissions == nil {
		return errors.New("submitter-kafka: missing dependency")
	}
	if w.Workers <= 0 {
		w.Workers = 4
	}
	if w.Log == nil {
		w.Log = zap.NewNop()
	}

	msgCh := make(chan kafka.Message, w.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			m, err := w.Source.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				w.Log.Warn("kafka fetch failed", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(200 * time.Millisecond):
				}
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range msgCh {
				w.processOne(ctx, m)
			}
		}()
	}

	wg.Wait()
	return nil
}

func (w *SubmitterKafka) processOne(ctx context.Context, m kafka.Message) {
	var env model.SubmissionEnvelope
	if err := json.Unmarshal(m.Value, &env); err != nil || env.ID == "" {
		_ = w.Source.Commit(ctx, m) // poison → commit, skip
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		w.Log.Warn("bad submission envelope", zap.Int64("offset", m.Offset), zap.Error(err))
		return
	}

	log := w.Log.With(zap.String("submission_id", env.ID), zap.String("reference", env.Submission.Reference))

	claimed, err := w.Submissions.Claim(ctx, env.ID)
	if err != nil {
		// offset stays uncommitted; the message comes back after a rebalance or restart
		log.Error("claim submission failed", zap.Error(err))
		return
	}
	if !claimed {
		metrics.SubmissionsTotal.WithLabelValues("duplicate").Inc()
		log.Info("submission already claimed, skipping")
		if err := w.Source.Commit(ctx, m); err != nil {
			log.Error("kafka commit failed", zap.Error(err))
		}
		return
	}

	res, err := w.Service.Submit(ctx, env.Submission)

	status := model.SubmissionCommitted
	errMsg := ""
	stage := "committed"
	if err != nil {
		status = model.SubmissionFailed
		errMsg = err.Error()
		stage = "failed"
		if errors.Is(err, submit.ErrInvalidSubmission) {
			stage = "rejected"
		}
		log.Warn("submission failed", zap.String("job_id", res.JobID), zap.Error(err))
	}
	metrics.SubmissionsTotal.WithLabelValues(stage).Inc()

	if uerr := w.Submissions.UpdateResult(ctx, nil, env.ID, status, res.JobID, res.OrderID, errMsg); uerr != nil {
		log.Error("update submission failed", zap.Error(uerr))
	}

	// Always commit: a failed submission is recorded, not retried.
	if err := w.Source.Commit(ctx, m); err != nil {
		log.Error("kafka commit failed", zap.Error(err))
	}
}
