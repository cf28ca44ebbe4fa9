package repository

import (
	"context"

	"CryptoBasket/internal/domain/models"
	domrepo "CryptoBasket/internal/domain/repository"
	pkgkafka "CryptoBasket/pkg/kafka"
)

// KafkaSnapshotPublisher publishes each finished dashboard as one message
// keyed by its refresh id.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSnapshotPublisher creates Kafka publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, d *models.Dashboard) error {
	return p.producer.Publish(ctx, p.topic, []byte(d.RefreshID), d)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ domrepo.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)
