package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"vendorconnect/internal/logx"
	"vendorconnect/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// MustRun serves the API and admin endpoints until ctx is cancelled.
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type runIn struct {
	dig.In
	Ctx      context.Context
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Producer *kafka.Producer
	API      *http.Server
	Admin    *http.Server `name:"admin_server"`
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		defer closeResources(in.Pool, in.Producer, in.Logger)
		return serve(in.Ctx, in.Logger, in.API, in.Admin)
	})
}

// serve runs every server until ctx is done or one of them fails, then shuts all of them down.
func serve(ctx context.Context, logger logx.Logger, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info("http server listening", logx.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down vendorconnect...")
		for _, srv := range servers {
			gracefulShutdown(srv, logger, shutdownTimeout)
		}
		return nil
	})
	return g.Wait()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
		if err := srv.Close(); err != nil {
			logger.Error("server close error", logx.String("addr", srv.Addr), logx.Err(err))
		}
	}
}

func closeResources(pool *pgxpool.Pool, producer *kafka.Producer, logger logx.Logger) {
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
