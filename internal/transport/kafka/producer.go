package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IBM/sarama"

	"vendorconnect/internal/domain"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes marketplace events to a single topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a synchronous producer. It returns nil when Kafka is not configured.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	// RetryingPublisher owns retries.
	cfg.Producer.Retry.Max = 0

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &Producer{producer: p, topic: topic}, nil
}

// Publish sends ev keyed by its aggregate.
func (p *Producer) Publish(ctx context.Context, ev domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(FromDomain(ev))
	if err != nil {
		return Permanent(fmt.Errorf("encode event: %w", err))
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(MessageKey(ev)),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("send event %s: %w", ev.Type, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}

// NopPublisher drops events. It is used when Kafka is not configured.
type NopPublisher struct{}

// Publish implements the publisher contract.
func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
