package metrics

import (
	"sync"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "econnect_calls_total",
			Help: "Remote eConnect calls by operation and outcome",
		},
		[]string{"operation", "outcome"}, // ok | transport | remote | validation | timeout
	)

	CallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "econnect_call_duration_seconds",
			Help:    "Latency of remote eConnect calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "econnect_submissions_total",
			Help: "Submission jobs by stage",
		},
		[]string{"stage"}, // committed | failed | rejected | duplicate
	)

	OutboxRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "econnect_outbox_rejected_total",
			Help: "Outbox events parked because Kafka refused them",
		},
	)

	JournalDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "econnect_journal_dropped_total",
			Help: "Call records dropped because the journal buffer was full",
		},
	)
)

var registerOnce sync.Once

// MustRegister registers all collectors once; later calls are no-ops so the
// server and the workers can both call it.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			CallsTotal,
			CallDuration,
			SubmissionsTotal,
			OutboxRejected,
			JournalDropped,
		)
	})
}

func outcome(info econnect.CallInfo) string {
	if info.Error == 0 {
		return "ok"
	}
	return string(info.Kind)
}

// Observer records every gateway call.
func Observer() econnect.Observer {
	return econnect.ObserverFunc(func(info econnect.CallInfo) {
		CallsTotal.WithLabelValues(info.Operation, outcome(info)).Inc()
		CallDuration.WithLabelValues(info.Operation).Observe(info.Duration.Seconds())
	})
}
