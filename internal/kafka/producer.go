package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers []string
	// BatchBytes caps one write request and so one message; default 10MB to
	// match the consumer's MaxBytes. Keep it at or below the broker's
	// message.max.bytes.
	BatchBytes int64
}

// Producer publishes messages to the topic set on each message.
type Producer struct {
	w *kafka.Writer
}

func NewProducer(c ProducerConfig) *Producer {
	bb := c.BatchBytes
	if bb <= 0 {
		bb = 10 << 20 // 10MB
	}
	return &Producer{w: &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Balancer:     &kafka.Hash{}, // same submission id -> same partition
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		BatchBytes:   bb,
	}}
}

func (p *Producer) Publish(ctx context.Context, msgs ...Message) error {
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *Producer) Close() error { return p.w.Close() }

// Rejected reports whether err means the broker or the writer will never
// accept the message as it is, so retrying it is pointless.
func Rejected(err error) bool {
	if err == nil {
		return false
	}
	var werrs kafka.WriteErrors
	if errors.As(err, &werrs) {
		for _, e := range werrs {
			if Rejected(e) {
				return true
			}
		}
		return false
	}
	return errors.Is(err, kafka.MessageSizeTooLarge) ||
		errors.Is(err, kafka.RecordListTooLarge) ||
		errors.Is(err, kafka.InvalidMessage) ||
		errors.Is(err, kafka.InvalidMessageSize)
}
