package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"vendorconnect/internal/config"
	"vendorconnect/internal/http/adminserver"
	"vendorconnect/internal/http/handlers"
	mw "vendorconnect/internal/http/middleware"
	"vendorconnect/internal/http/middleware/ratelimit"
	"vendorconnect/internal/http/router"
	"vendorconnect/internal/logx"
)

type handlersIn struct {
	dig.In
	Base        *handlers.Handlers
	Users       *handlers.UserHandler
	GroupOrders *handlers.GroupOrderHandler
	Transports  *handlers.TransportHandler
	Deliveries  *handlers.DeliveryHandler
	Products    *handlers.ProductHandler
	Orders      *handlers.OrderHandler
}

type serversOut struct {
	dig.Out
	API   *http.Server
	Admin *http.Server `name:"admin_server"`
}

func newMiddlewares(cfg *config.Config, logger logx.Logger, rl *ratelimit.Middleware) (router.Middlewares, error) {
	if cfg.Auth.JWTSecret == "" {
		return router.Middlewares{}, errors.New("JWT_SECRET is required")
	}
	return router.Middlewares{
		Observability: mw.Observability(logger),
		Auth:          mw.Auth(logger, []byte(cfg.Auth.JWTSecret)),
		RateLimit:     rl.Handler(),
	}, nil
}

func newRouter(in handlersIn, mws router.Middlewares) http.Handler {
	return router.New(router.Handlers{
		Base:        in.Base,
		Users:       in.Users,
		GroupOrders: in.GroupOrders,
		Transports:  in.Transports,
		Deliveries:  in.Deliveries,
		Products:    in.Products,
		Orders:      in.Orders,
	}, mws)
}

func newServers(cfg *config.Config, logger logx.Logger, mux http.Handler, gatherer prometheus.Gatherer) serversOut {
	admin := adminserver.Handler(logger, adminserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}, gatherer)
	return serversOut{
		API:   newServer(cfg.Port, mux),
		Admin: newServer(cfg.AdminPort, admin),
	}
}

func newServer(port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// pprof profile and trace stream for up to 30s by default.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerHTTP(container *dig.Container) error {
	if err := registerRateLimit(container); err != nil {
		return err
	}
	return provideAll(container,
		handlers.New,
		handlers.NewUserUsecase,
		handlers.NewNearbyUsecase,
		handlers.NewGroupOrderUsecase,
		handlers.NewTransportUsecase,
		handlers.NewDeliveryUsecase,
		handlers.NewProductUsecase,
		handlers.NewOrderUsecase,
		handlers.NewUserHandler,
		handlers.NewGroupOrderHandler,
		handlers.NewTransportHandler,
		handlers.NewDeliveryHandler,
		handlers.NewProductHandler,
		handlers.NewOrderHandler,
		newMiddlewares,
		newRouter,
		newServers,
	)
}
