package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// HandleFunc processes a single domain.Event from Kafka
type HandleFunc func(context.Context, domain.Event) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and dispatches events to a handler
type Consumer struct {
	logger  logx.Logger
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	backoff time.Duration
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	// No consumer without brokers, topic and group.
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		logger:  logger,
		group:   group,
		topic:   topic,
		handler: h,
		backoff: time.Second,
	}, nil
}

// Run starts the consumer
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("kafka consume error", logx.Err(err))
			if !sleepWithContext(ctx, c.backoff) {
				return ctx.Err()
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close closes the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto EventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("kafka bad json", logx.Int64("offset", msg.Offset), logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		ev := ToDomain(dto)
		if ev.Type == "" || ev.Aggregate == "" || ev.AggregateID <= 0 {
			h.c.logger.Warn("kafka incomplete event", logx.Int64("offset", msg.Offset), logx.String("id", ev.ID))
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			var perm PermanentError
			if errors.As(err, &perm) {
				h.c.logger.Error("kafka handle failed, skipping message",
					logx.String("id", ev.ID),
					logx.String("type", string(ev.Type)),
					logx.Err(err),
				)
				sess.MarkMessage(msg, "")
				continue
			}
			h.c.logger.Warn("kafka handle failed, retry",
				logx.String("id", ev.ID),
				logx.String("type", string(ev.Type)),
				logx.Err(err),
			)
			return err
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
