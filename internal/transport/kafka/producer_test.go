package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"vendorconnect/internal/domain"
)

func mockConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	return cfg
}

func TestProducer_PublishSendsEncodedEvent(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, mockConfig())
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var dto EventDTO
		if err := json.Unmarshal(val, &dto); err != nil {
			return err
		}
		if dto.Aggregate != "group_order" || dto.AggregateID != 7 || dto.ID == "" {
			return errors.New("unexpected payload")
		}
		return nil
	})
	p := &Producer{producer: sp, topic: "marketplace.events"}
	t.Cleanup(func() { require.NoError(t, p.Close()) })

	require.NoError(t, p.Publish(context.Background(), statusChanged))
}

func TestProducer_PublishWrapsSendError(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, mockConfig())
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	p := &Producer{producer: sp, topic: "marketplace.events"}
	t.Cleanup(func() { require.NoError(t, p.Close()) })

	err := p.Publish(context.Background(), statusChanged)
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.True(t, isRetryable(err))
}

func TestProducer_PublishHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, mockConfig())
	p := &Producer{producer: sp, topic: "marketplace.events"}
	t.Cleanup(func() { require.NoError(t, p.Close()) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Publish(ctx, statusChanged), context.Canceled)
}

func TestNewProducer_SkipsWhenNoKafkaConfig(t *testing.T) {
	t.Parallel()

	p, err := NewProducer(nil, "topic")
	require.NoError(t, err)
	require.Nil(t, p)
	require.NoError(t, p.Close())
}

func TestMessageKey_GroupsByAggregate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "transport:42", MessageKey(domain.Event{Aggregate: domain.AggregateTransport, AggregateID: 42}))
}

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	dto := FromDomain(statusChanged)
	dto.Status = "  processing "
	got := ToDomain(dto)

	require.Equal(t, statusChanged.OccurredAt, got.OccurredAt)
	require.Equal(t, "processing", got.Status)
	require.Equal(t, dto.ID, got.ID)
}
