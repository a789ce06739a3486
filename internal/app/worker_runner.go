package app

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"vendorconnect/internal/config"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/transport/kafka"
)

// WorkerRunner runs the event consumer and the group order sweeper
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type workerIn struct {
	dig.In
	Ctx      context.Context
	Config   *config.Config
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Producer *kafka.Producer
	Consumer *kafka.Consumer
	Sweeper  expiredCloser
}

func runWorker(container *dig.Container) error {
	return container.Invoke(func(in workerIn) error {
		defer closeWorker(in.Pool, in.Producer, in.Consumer, in.Logger)
		return workerRun(in.Ctx, in.Logger, in.Consumer, in.Sweeper, in.Config.Worker.SweepInterval)
	})
}

func workerRun(
	ctx context.Context,
	logger logx.Logger,
	consumer *kafka.Consumer,
	sweeper expiredCloser,
	interval time.Duration,
) error {
	g, gctx := errgroup.WithContext(ctx)
	if consumer == nil {
		logger.Warn("kafka is not configured, deliveries are not scheduled")
	} else {
		g.Go(func() error { return consumer.Run(gctx) })
	}
	g.Go(func() error { return runSweeper(gctx, logger, sweeper, interval) })

	logger.Info("vendorconnect-worker started", logx.Duration("sweep_interval", interval))
	return g.Wait()
}

func closeWorker(pool *pgxpool.Pool, producer *kafka.Producer, consumer *kafka.Consumer, logger logx.Logger) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka consumer close error", logx.Err(err))
	}
	closeResources(pool, producer, logger)
}
