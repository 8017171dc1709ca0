package journal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSink struct {
	mu      sync.Mutex
	batches [][]model.CallRecord
}

func (m *memSink) InsertBatch(_ context.Context, rows []model.CallRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]model.CallRecord(nil), rows...))
	return nil
}

func (m *memSink) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func info(id string) econnect.CallInfo {
	return econnect.CallInfo{
		ID:        id,
		Operation: econnect.OpCommitProcess,
		Mode:      econnect.ModeLive,
		Endpoint:  econnect.DefaultEndpoint,
		Error:     1,
		Kind:      econnect.KindRemote,
		Message:   "job unknown",
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
		Duration:  1500 * time.Millisecond,
	}
}

func TestRecord(t *testing.T) {
	r := Record(info("01X"))

	assert.Equal(t, "01X", r.ID)
	assert.Equal(t, "commitProcess", r.Operation)
	assert.Equal(t, "remote", r.Kind)
	assert.Equal(t, int64(1500), r.DurationMs)
	assert.Equal(t, time.UTC, r.CreatedAt.Location())
	assert.Equal(t, 10, r.CreatedAt.Hour())
}

func TestWriter_FlushesOnBatchSize(t *testing.T) {
	sink := &memSink{}
	w := NewWriter(nil, Options{BatchSize: 2, BatchWait: time.Hour}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Observe(info("1"))
	w.Observe(info("2"))

	require.Eventually(t, func() bool { return sink.total() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWriter_FlushesOnTick(t *testing.T) {
	sink := &memSink{}
	w := NewWriter(nil, Options{BatchSize: 100, BatchWait: 10 * time.Millisecond}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Observe(info("1"))

	require.Eventually(t, func() bool { return sink.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWriter_DrainsOnShutdown(t *testing.T) {
	a, b := &memSink{}, &memSink{}
	w := NewWriter(nil, Options{BatchSize: 100, BatchWait: time.Hour}, a, b)

	for i := 0; i < 5; i++ {
		w.Observe(info("x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	<-w.Done()
	assert.Equal(t, 5, a.total())
	assert.Equal(t, 5, b.total())
}

func TestWriter_DropsWhenFull(t *testing.T) {
	dropped := 0
	w := NewWriter(nil, Options{Buffer: 1, OnDrop: func() { dropped++ }}, &memSink{})

	w.Observe(info("1"))
	w.Observe(info("2"))
	w.Observe(info("3"))

	assert.Equal(t, 2, dropped)
}
