package app

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"vendorconnect/internal/accountant"
	"vendorconnect/internal/config"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/metrics"
	"vendorconnect/internal/repository"
	"vendorconnect/internal/service/fulfilment"
	"vendorconnect/internal/service/grouporder"
	"vendorconnect/internal/service/nearby"
	"vendorconnect/internal/service/orders"
	"vendorconnect/internal/service/products"
	"vendorconnect/internal/service/transport"
	"vendorconnect/internal/service/users"
	"vendorconnect/internal/transport/kafka"
)

// eventPublisher is what the services publish marketplace events through.
type eventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type countersOut struct {
	dig.Out
	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	PublishRetries    prometheus.Counter `name:"event_publish_retries_total"`
}

func newCounters(reg prometheus.Registerer) (countersOut, error) {
	rl, err := register(reg, metrics.NewRateLimitExceededTotal())
	if err != nil {
		return countersOut{}, err
	}
	retries, err := register(reg, metrics.NewPublishRetriesTotal())
	if err != nil {
		return countersOut{}, err
	}
	return countersOut{RateLimitExceeded: rl, PublishRetries: retries}, nil
}

func newParticipation(reg prometheus.Registerer) (*metrics.Participation, error) {
	p := metrics.NewParticipation()
	err := reg.Register(p.Collector())
	var are prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &are) {
		return nil, err
	}
	// A duplicate stays unregistered. Only tests build more than one container per process.
	return p, nil
}

// register returns the already registered counter when c is a duplicate.
func register(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container,
		newCounters,
		newParticipation,
	)
}

type publisherIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Producer *kafka.Producer
	Retries  prometheus.Counter `name:"event_publish_retries_total"`
}

func newProducer(cfg *config.Config) (*kafka.Producer, error) {
	return kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

func newEventPublisher(in publisherIn) eventPublisher {
	if in.Producer == nil {
		in.Logger.Warn("kafka is not configured, marketplace events are not published")
		return kafka.NopPublisher{}
	}
	return kafka.NewRetryingPublisher(in.Producer, in.Logger, in.Retries, kafka.RetryConfig{
		MaxAttempts: in.Config.Publisher.MaxAttempts,
		BaseDelay:   in.Config.Publisher.BaseDelay,
		MaxDelay:    in.Config.Publisher.MaxDelay,
	})
}

func registerEvents(container *dig.Container) error {
	return provideAll(container,
		newProducer,
		newEventPublisher,
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		accountant.NewLocks,
		func(repo *repository.UserRepo, timeout time.Duration, logger logx.Logger) *users.Service {
			return users.NewService(repo, timeout, logger)
		},
		func(
			u *repository.UserRepo,
			g *repository.GroupOrderRepo,
			t *repository.TransportRepo,
			timeout time.Duration,
		) *nearby.Service {
			return nearby.NewService(u, g, t, timeout)
		},
		func(
			repo *repository.GroupOrderRepo,
			locks *accountant.Locks,
			pub eventPublisher,
			outcomes *metrics.Participation,
			timeout time.Duration,
			logger logx.Logger,
		) *grouporder.Service {
			return grouporder.NewService(repo, locks, pub, outcomes, timeout, logger)
		},
		func(
			repo *repository.TransportRepo,
			locks *accountant.Locks,
			pub eventPublisher,
			outcomes *metrics.Participation,
			timeout time.Duration,
			logger logx.Logger,
		) *transport.Service {
			return transport.NewService(repo, locks, pub, outcomes, timeout, logger)
		},
		func(
			repo *repository.DeliveryRepo,
			locks *accountant.Locks,
			pub eventPublisher,
			cfg *config.Config,
			timeout time.Duration,
			logger logx.Logger,
		) *fulfilment.Service {
			return fulfilment.NewService(repo, locks, pub, cfg.Worker.TrackingBaseURL, timeout, logger)
		},
		func(repo *repository.ProductRepo, timeout time.Duration, logger logx.Logger) *products.Service {
			return products.NewService(repo, timeout, logger)
		},
		func(
			repo *repository.OrderRepo,
			catalogue *repository.ProductRepo,
			pub eventPublisher,
			timeout time.Duration,
			logger logx.Logger,
		) *orders.Service {
			return orders.NewService(repo, catalogue, pub, timeout, logger)
		},
	)
}
