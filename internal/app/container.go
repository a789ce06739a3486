package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"vendorconnect/internal/config"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/repository"
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  dbConnectFunc
	migrate    func(string) error
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		migrate:    repository.Migrate,
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithMigrate sets the schema migration function
func (b *ContainerBuilder) WithMigrate(fn func(string) error) *ContainerBuilder {
	if fn != nil {
		b.migrate = fn
	}
	return b
}

// WithConfig makes the container use cfg instead of loading it from the environment
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithRegistry registers collectors in reg and serves them from it
func (b *ContainerBuilder) WithRegistry(reg *prometheus.Registry) *ContainerBuilder {
	if reg != nil {
		b.registerer = reg
		b.gatherer = reg
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the API container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerHTTP)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.build(ctx, registerWorker)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context, surface func(*dig.Container) error) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect, b.migrate); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerEvents(container); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := surface(container); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API container from the environment
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container from the environment
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, b *ContainerBuilder) error {
	return provideAll(container,
		func() context.Context { return ctx },
		b.loadConfig,
		NewLogger,
		func() prometheus.Registerer { return b.registerer },
		func() prometheus.Gatherer { return b.gatherer },
		func(cfg *config.Config) time.Duration { return cfg.OperationTimeout },
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc, migrate func(string) error) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if cfg.DB.AutoMigrate {
			if err := migrate(cfg.DB.MigrateURL()); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info("database schema is up to date")
		}
		return pool, nil
	}
	return provideAll(container,
		providerDB,
		repository.NewUserRepo,
		repository.NewGroupOrderRepo,
		repository.NewTransportRepo,
		repository.NewDeliveryRepo,
		repository.NewProductRepo,
		repository.NewOrderRepo,
	)
}
