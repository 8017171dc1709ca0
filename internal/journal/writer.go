package journal

import (
	"context"
	"sync"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"go.uber.org/zap"
)

// Sink stores a batch of call records. Both journal repositories satisfy it.
type Sink interface {
	InsertBatch(ctx context.Context, rows []model.CallRecord) error
}

type Options struct {
	Buffer    int           // queued records; default 1024
	BatchSize int           // max records per flush; default 200
	BatchWait time.Duration // max time a record waits; default 1s
	OnDrop    func()        // called for every record dropped on a full buffer
}

// Writer is an econnect.Observer that journals calls asynchronously. Observe
// never blocks the caller; records are dropped when the buffer is full.
type Writer struct {
	in    chan model.CallRecord
	sinks []Sink
	opts  Options
	log   *zap.Logger

	done chan struct{}
	once sync.Once
}

func NewWriter(log *zap.Logger, opts Options, sinks ...Sink) *Writer {
	if opts.Buffer <= 0 {
		opts.Buffer = 1024
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	if opts.BatchWait <= 0 {
		opts.BatchWait = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{
		in:    make(chan model.CallRecord, opts.Buffer),
		sinks: sinks,
		opts:  opts,
		log:   log,
		done:  make(chan struct{}),
	}
}

func Record(info econnect.CallInfo) model.CallRecord {
	return model.CallRecord{
		ID:         info.ID,
		Operation:  info.Operation,
		Mode:       info.Mode,
		Endpoint:   info.Endpoint,
		Error:      info.Error,
		Kind:       string(info.Kind),
		Message:    info.Message,
		DurationMs: info.Duration.Milliseconds(),
		CreatedAt:  info.StartedAt.UTC(),
	}
}

func (w *Writer) Observe(info econnect.CallInfo) {
	select {
	case w.in <- Record(info):
	default:
		if w.opts.OnDrop != nil {
			w.opts.OnDrop()
		}
	}
}

// Run flushes on size or time until ctx is cancelled, then drains what is
// already queued. It returns once the final flush is done.
func (w *Writer) Run(ctx context.Context) {
	defer w.once.Do(func() { close(w.done) })

	tick := time.NewTicker(w.opts.BatchWait)
	defer tick.Stop()

	batch := make([]model.CallRecord, 0, w.opts.BatchSize)

	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		for _, s := range w.sinks {
			if err := s.InsertBatch(ctx, batch); err != nil {
				w.log.Error("journal flush failed", zap.Int("records", len(batch)), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case r := <-w.in:
					batch = append(batch, r)
					if len(batch) >= w.opts.BatchSize {
						flush(context.Background())
					}
				default:
					flush(context.Background())
					return
				}
			}

		case r := <-w.in:
			batch = append(batch, r)
			if len(batch) >= w.opts.BatchSize {
				flush(ctx)
			}

		case <-tick.C:
			flush(ctx)
		}
	}
}

// Done is closed when Run has returned.
func (w *Writer) Done() <-chan struct{} { return w.done }
