package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/dig"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/config"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/service/fulfilment"
	"vendorconnect/internal/service/grouporder"
	"vendorconnect/internal/transport/kafka"
)

const eventHandleTimeout = 5 * time.Second

type eventHandler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

type expiredCloser interface {
	CloseExpired(ctx context.Context) (int, error)
}

// makeEventHandler bounds each event with a timeout. Errors that a redelivery
// cannot fix are marked permanent so the consumer skips the message.
func makeEventHandler(h eventHandler, timeout time.Duration) kafka.HandleFunc {
	return func(ctx context.Context, ev domain.Event) error {
		hctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := h.Handle(hctx, ev)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, apperr.ErrNotFound),
			errors.Is(err, apperr.ErrInvalidArgument),
			errors.Is(err, apperr.ErrInvalidTransition):
			return kafka.Permanent(err)
		default:
			return err
		}
	}
}

// runSweeper closes expired group orders once at start and then every interval.
func runSweeper(ctx context.Context, logger logx.Logger, s expiredCloser, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		n, err := s.CloseExpired(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			logger.Error("close expired group orders", logx.Err(err))
		case n > 0:
			logger.Info("expired group orders closed", logx.Int("count", n))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func newConsumer(cfg *config.Config, logger logx.Logger, svc *fulfilment.Service) (*kafka.Consumer, error) {
	handle := makeEventHandler(fulfilment.NewProcessor(svc), eventHandleTimeout)
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, handle)
}

func newSweeper(svc *grouporder.Service) expiredCloser { return svc }

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newConsumer,
		newSweeper,
	)
}
