package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"vendorconnect/internal/config"
	"vendorconnect/internal/http/handlers"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:             8080,
		AdminPort:        9090,
		LogLevel:         "error",
		OperationTimeout: time.Second,
		Auth:             config.Auth{JWTSecret: "test-secret"},
		RateLimit: config.RateLimit{
			Enabled:    true,
			Rate:       5,
			Burst:      5,
			TTL:        time.Minute,
			MaxBuckets: 100,
			AnonRate:   1,
			AnonBurst:  2,
		},
		Publisher: config.DefaultPublisher(),
		Worker: config.Worker{
			SweepInterval:   time.Minute,
			TrackingBaseURL: "https://vendorconnect.com",
		},
	}
}

func stubConnect(pool *pgxpool.Pool, err error) dbConnectFunc {
	return func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
		return pool, err
	}
}

func testBuilder(cfg *config.Config) *ContainerBuilder {
	return NewContainerBuilder().
		WithConfig(cfg).
		WithRegistry(prometheus.NewRegistry()).
		WithDBConnect(stubConnect(&pgxpool.Pool{}, nil)).
		WithLogFatalf(func(format string, args ...interface{}) {
			panic("unexpected fatal: " + format)
		})
}

type serversIn struct {
	dig.In
	API   *http.Server
	Admin *http.Server `name:"admin_server"`
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestRegisterDb_UsesDbConnectAndProvidesPool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig()
	cfg.DB = config.DB{Host: "localhost", Port: "5432", User: "user", Pass: "pass", Name: "db"}
	stubPool := &pgxpool.Pool{}

	c := dig.New()
	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(logx.Nop))

	connect := func(gotCtx context.Context, _ logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
		require.Equal(t, ctx, gotCtx)
		require.Equal(t, cfg.DB.DSN(), dsn)
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return stubPool, nil
	}
	migrate := func(string) error {
		require.FailNow(t, "migrate must not run when auto migration is off")
		return nil
	}
	require.NoError(t, registerDb(c, connect, migrate))

	err := c.Invoke(func(pool *pgxpool.Pool) {
		require.Same(t, stubPool, pool)
	})
	require.NoError(t, err)
}

func TestRegisterDb_RunsMigrationsWhenEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.DB = config.DB{Host: "db", Port: "5432", User: "u", Pass: "p", Name: "vendorconnect", AutoMigrate: true}

	var gotURL string
	c, err := testBuilder(cfg).
		WithMigrate(func(url string) error {
			gotURL = url
			return nil
		}).
		build(context.Background(), registerHTTP)
	require.NoError(t, err)

	require.NoError(t, c.Invoke(func(*pgxpool.Pool) {}))
	require.Equal(t, cfg.DB.MigrateURL(), gotURL)
}

func TestContainerBuilder_Build_ProvidesServersAndHandlers(t *testing.T) {
	t.Parallel()

	c, err := testBuilder(testConfig()).build(context.Background(), registerHTTP)
	require.NoError(t, err)

	err = c.Invoke(func(
		in serversIn,
		users *handlers.UserHandler,
		transports *handlers.TransportHandler,
		products *handlers.ProductHandler,
		orders *handlers.OrderHandler,
	) {
		require.Equal(t, ":8080", in.API.Addr)
		require.Equal(t, ":9090", in.Admin.Addr)
		for _, srv := range []*http.Server{in.API, in.Admin} {
			require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
			require.Greater(t, srv.ReadTimeout, time.Duration(0))
			require.Greater(t, srv.WriteTimeout, time.Duration(0))
			require.Greater(t, srv.IdleTimeout, time.Duration(0))
		}
		require.NotNil(t, users)
		require.NotNil(t, transports)
		require.NotNil(t, products)
		require.NotNil(t, orders)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_RouterRequiresToken(t *testing.T) {
	t.Parallel()

	c, err := testBuilder(testConfig()).build(context.Background(), registerHTTP)
	require.NoError(t, err)

	err = c.Invoke(func(in serversIn) {
		rr := httptest.NewRecorder()
		in.API.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		in.API.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transports/available", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = httptest.NewRecorder()
		in.API.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_AdminServesRegistry(t *testing.T) {
	t.Parallel()

	c, err := testBuilder(testConfig()).build(context.Background(), registerHTTP)
	require.NoError(t, err)

	err = c.Invoke(func(in serversIn) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.RemoteAddr = "127.0.0.1:5555"
		rr := httptest.NewRecorder()
		in.Admin.Handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Contains(t, rr.Body.String(), "rate_limit_exceeded_total")
		require.Contains(t, rr.Body.String(), "event_publish_retries_total")
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_MissingSecretFailsOnInvoke(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.JWTSecret = ""

	c, err := testBuilder(cfg).build(context.Background(), registerHTTP)
	require.NoError(t, err)

	err = c.Invoke(func(serversIn) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	c, err := testBuilder(testConfig()).
		WithDBConnect(stubConnect(nil, errors.New("db failed"))).
		build(context.Background(), registerHTTP)
	require.NoError(t, err)

	err = c.Invoke(func(*pgxpool.Pool) {})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

func TestContainerBuilder_PublisherIsNopWithoutKafka(t *testing.T) {
	t.Parallel()

	c, err := testBuilder(testConfig()).build(context.Background(), registerHTTP)
	require.NoError(t, err)

	err = c.Invoke(func(p *kafka.Producer, pub eventPublisher) {
		require.Nil(t, p)
		require.IsType(t, kafka.NopPublisher{}, pub)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_MustBuildWorker(t *testing.T) {
	t.Parallel()

	c := testBuilder(testConfig()).MustBuildWorker(context.Background())

	err := c.Invoke(func(consumer *kafka.Consumer, sweeper expiredCloser) {
		require.Nil(t, consumer)
		require.NotNil(t, sweeper)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_MustBuild_DoesNotCallFatal(t *testing.T) {
	t.Parallel()

	builder := testBuilder(testConfig()).
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	require.NotNil(t, builder.MustBuild(context.Background()))
}

func TestRegister_ReusesExistingCounter(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	first, err := newCounters(reg)
	require.NoError(t, err)
	second, err := newCounters(reg)
	require.NoError(t, err)

	require.Same(t, first.RateLimitExceeded, second.RateLimitExceeded)
	require.Same(t, first.PublishRetries, second.PublishRetries)
}
