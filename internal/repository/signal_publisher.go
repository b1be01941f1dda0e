package repository

import (
	"context"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/pkg/kafka"
)

// KafkaSignalPublisher emits scored universes to the signal topic. It
// also satisfies logger.Publisher so the aggregated-log collector can
// share the producer.
type KafkaSignalPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *kafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

// PublishUniverse emits one full scored universe, keyed by regime so a
// regime's cycles stay ordered per partition.
func (p *KafkaSignalPublisher) PublishUniverse(ctx context.Context, u *models.ScoredUniverse) error {
	if u == nil {
		return nil
	}
	return p.producer.Publish(ctx, p.topic, []byte(u.Regime), u)
}

// PublishMessage implements logger.Publisher for log aggregation.
func (p *KafkaSignalPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}

// NopSignalPublisher is used when the broker is disabled in config.
type NopSignalPublisher struct{}

func (NopSignalPublisher) PublishUniverse(context.Context, *models.ScoredUniverse) error { return nil }
func (NopSignalPublisher) Close() error                                                 { return nil }
