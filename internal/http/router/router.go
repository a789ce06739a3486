package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vendorconnect/internal/http/handlers"
)

// Middlewares are the cross-cutting handlers mounted by New. Nil entries are skipped.
type Middlewares struct {
	Observability func(http.Handler) http.Handler
	Auth          func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
}

// Handlers groups the resource handlers served by the API.
type Handlers struct {
	Base        *handlers.Handlers
	Users       *handlers.UserHandler
	GroupOrders *handlers.GroupOrderHandler
	Transports  *handlers.TransportHandler
	Deliveries  *handlers.DeliveryHandler
	Products    *handlers.ProductHandler
	Orders      *handlers.OrderHandler
}

// New constructs a chi-based http.Handler with base middleware and routes.
// Everything except the liveness endpoints requires a bearer token.
func New(h Handlers, mws Middlewares) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	use(r, mws.Observability)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", h.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.Base.HealthcheckHead))
	r.NotFound(http.HandlerFunc(h.Base.NotFound))

	r.Group(func(r chi.Router) {
		use(r, mws.Auth)
		use(r, mws.RateLimit)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.Users.Me)
			r.Put("/me/location", h.Users.UpdateLocation)
			r.Get("/nearby-suppliers", h.Users.NearbySuppliers)
			r.Get("/nearby-vendors", h.Users.NearbyVendors)
		})

		r.Route("/group-orders", func(r chi.Router) {
			r.Get("/nearby", h.GroupOrders.Nearby)
			r.Get("/my-initiated", h.GroupOrders.MyInitiated)
			r.Post("/", h.GroupOrders.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GroupOrders.Get)
				r.Post("/join", h.GroupOrders.Join)
				r.Delete("/participants/{pid}", h.GroupOrders.CancelParticipation)
				r.Patch("/status", h.GroupOrders.UpdateStatus)
			})
		})

		r.Route("/transports", func(r chi.Router) {
			r.Get("/available", h.Transports.Available)
			r.Get("/my-initiated", h.Transports.MyInitiated)
			r.Get("/my-participations", h.Transports.MyParticipations)
			r.Post("/", h.Transports.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Transports.Get)
				r.Post("/join", h.Transports.Join)
				r.Patch("/participants/{pid}", h.Transports.UpdateParticipant)
				r.Delete("/participants/{pid}", h.Transports.CancelParticipation)
				r.Patch("/status", h.Transports.UpdateStatus)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Post("/", h.Products.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Products.Get)
				r.Put("/", h.Products.Update)
				r.Delete("/", h.Products.Delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Post("/", h.Orders.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Orders.Get)
				r.Patch("/status", h.Orders.UpdateStatus)
			})
		})

		r.Route("/deliveries/{id}", func(r chi.Router) {
			r.Get("/", h.Deliveries.Get)
			r.Patch("/status", h.Deliveries.UpdateStatus)
		})
	})

	return r
}

func use(r chi.Router, mw func(http.Handler) http.Handler) {
	if mw != nil {
		r.Use(mw)
	}
}
