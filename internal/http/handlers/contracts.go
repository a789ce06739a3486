package handlers

import (
	"context"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
	"vendorconnect/internal/service/fulfilment"
	"vendorconnect/internal/service/grouporder"
	"vendorconnect/internal/service/nearby"
	"vendorconnect/internal/service/orders"
	"vendorconnect/internal/service/products"
	"vendorconnect/internal/service/transport"
	"vendorconnect/internal/service/users"
)

type userUsecase interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	UpdateLocation(ctx context.Context, actor domain.Actor, loc domain.Location, address *string) (*domain.User, error)
}

// NewUserUsecase wires a users.Service into a userUsecase.
func NewUserUsecase(svc *users.Service) userUsecase {
	return svc
}

type nearbyUsecase interface {
	Suppliers(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error)
	Vendors(ctx context.Context, actor domain.Actor, q nearby.Query) ([]geo.Match[domain.User], error)
	GroupOrders(ctx context.Context, q nearby.Query) ([]geo.Match[domain.GroupOrder], error)
	Transports(ctx context.Context, q domain.TransportQuery) ([]geo.Match[domain.Transport], error)
}

// NewNearbyUsecase wires a nearby.Service into a nearbyUsecase.
func NewNearbyUsecase(svc *nearby.Service) nearbyUsecase {
	return svc
}

type groupOrderUsecase interface {
	Create(ctx context.Context, actor domain.Actor, g *domain.GroupOrder) (*domain.GroupOrder, error)
	Get(ctx context.Context, id int64) (*domain.GroupOrder, error)
	ListInitiated(ctx context.Context, actor domain.Actor, status *domain.GroupOrderStatus, page domain.Page) ([]domain.GroupOrder, error)
	Join(ctx context.Context, actor domain.Actor, id int64, amount float64) (domain.GroupOrderParticipant, error)
	CancelParticipation(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.GroupOrderParticipant, error)
	TransitionStatus(ctx context.Context, actor domain.Actor, id int64, to domain.GroupOrderStatus) (*domain.GroupOrder, error)
}

// NewGroupOrderUsecase wires a grouporder.Service into a groupOrderUsecase.
func NewGroupOrderUsecase(svc *grouporder.Service) groupOrderUsecase {
	return svc
}

type transportUsecase interface {
	Create(ctx context.Context, actor domain.Actor, t *domain.Transport) (*domain.Transport, error)
	Get(ctx context.Context, id int64) (*domain.Transport, error)
	ListInitiated(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error)
	ListParticipations(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error)
	Join(ctx context.Context, actor domain.Actor, id int64, cargo domain.Cargo) (domain.TransportParticipant, error)
	SetParticipantStatus(ctx context.Context, actor domain.Actor, id, participationID int64, status domain.ParticipationStatus) (domain.TransportParticipant, error)
	CancelParticipation(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.TransportParticipant, error)
	TransitionStatus(ctx context.Context, actor domain.Actor, id int64, to domain.TransportStatus) (*domain.Transport, error)
}

// NewTransportUsecase wires a transport.Service into a transportUsecase.
func NewTransportUsecase(svc *transport.Service) transportUsecase {
	return svc
}

type deliveryUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, to domain.DeliveryStatus) (*domain.Delivery, error)
}

// NewDeliveryUsecase wires a fulfilment.Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *fulfilment.Service) deliveryUsecase {
	return svc
}

type productUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter, page domain.Page) ([]domain.Product, error)
	Create(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Actor, id int64, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

// NewProductUsecase wires a products.Service into a productUsecase.
func NewProductUsecase(svc *products.Service) productUsecase {
	return svc
}

type orderUsecase interface {
	Create(ctx context.Context, actor domain.Actor, o *domain.Order) (*domain.Order, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error)
	List(ctx context.Context, actor domain.Actor, f domain.OrderFilter, page domain.Page) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, to domain.OrderStatus) (*domain.Order, error)
}

// NewOrderUsecase wires an orders.Service into an orderUsecase.
func NewOrderUsecase(svc *orders.Service) orderUsecase {
	return svc
}
