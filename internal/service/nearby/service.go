// Package nearby answers proximity searches. Storage narrows candidates with a
// bounding box and geo.FindNearby refines and orders them by distance.
package nearby

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
)

// Default search radii in kilometres.
const (
	DefaultUserRadiusKm      = 50.0
	DefaultAggregateRadiusKm = 5.0
)

// Query is a proximity search around a point. A nil RadiusKm selects the
// default radius of the search; an explicit value must be positive.
type Query struct {
	Location domain.Location
	RadiusKm *float64
	Page     domain.Page
}

// Service runs proximity searches.
type Service struct {
	users            UserRepository
	groupOrders      GroupOrderRepository
	transports       TransportRepository
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates a nearby Service.
func NewService(users UserRepository, groupOrders GroupOrderRepository, transports TransportRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		users:            users,
		groupOrders:      groupOrders,
		transports:       transports,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Suppliers returns verified suppliers near a vendor.
func (s *Service) Suppliers(ctx context.Context, actor domain.Actor, q Query) ([]geo.Match[domain.User], error) {
	if actor.Role != domain.RoleVendor {
		return nil, fmt.Errorf("%w: only vendors can search for suppliers", apperr.ErrForbidden)
	}
	return s.searchUsers(ctx, domain.UserFilter{Role: domain.RoleSupplier, VerifiedOnly: true, ExcludeID: actor.ID}, q)
}

// Vendors returns vendors near a supplier.
func (s *Service) Vendors(ctx context.Context, actor domain.Actor, q Query) ([]geo.Match[domain.User], error) {
	if actor.Role != domain.RoleSupplier {
		return nil, fmt.Errorf("%w: only suppliers can search for vendors", apperr.ErrForbidden)
	}
	return s.searchUsers(ctx, domain.UserFilter{Role: domain.RoleVendor, ExcludeID: actor.ID}, q)
}

func (s *Service) searchUsers(ctx context.Context, f domain.UserFilter, q Query) ([]geo.Match[domain.User], error) {
	radiusKm := orDefault(q.RadiusKm, DefaultUserRadiusKm)
	if err := geo.ValidateQuery(q.Location, radiusKm); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	candidates, err := s.users.ListWithinBox(ctx, f, geo.BoundingBox(q.Location, radiusKm))
	if err != nil {
		return nil, err
	}
	matches, err := geo.FindNearby(q.Location, radiusKm, candidates, func(u domain.User) (domain.Location, bool) {
		if u.Location == nil {
			return domain.Location{}, false
		}
		return *u.Location, true
	})
	if err != nil {
		return nil, err
	}
	return paginate(matches, q.Page), nil
}

// GroupOrders returns open, not yet expired group orders near a point.
func (s *Service) GroupOrders(ctx context.Context, q Query) ([]geo.Match[domain.GroupOrder], error) {
	radiusKm := orDefault(q.RadiusKm, DefaultAggregateRadiusKm)
	if err := geo.ValidateQuery(q.Location, radiusKm); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	candidates, err := s.groupOrders.ListOpenWithinBox(ctx, geo.BoundingBox(q.Location, radiusKm), s.now())
	if err != nil {
		return nil, err
	}
	matches, err := geo.FindNearby(q.Location, radiusKm, candidates, func(g domain.GroupOrder) (domain.Location, bool) {
		return g.Location, true
	})
	if err != nil {
		return nil, err
	}
	return paginate(matches, q.Page), nil
}

// Transports returns available transports departing near q.Source, ordered by
// that distance. When q.Destination is set the transport must also arrive
// within the same radius of it.
func (s *Service) Transports(ctx context.Context, q domain.TransportQuery) ([]geo.Match[domain.Transport], error) {
	radiusKm := orDefault(q.RadiusKm, DefaultAggregateRadiusKm)
	if err := geo.ValidateQuery(q.Source, radiusKm); err != nil {
		return nil, err
	}
	if q.Destination != nil && !q.Destination.Valid() {
		return nil, fmt.Errorf("%w: destination location out of range", apperr.ErrInvalidArgument)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	candidates, err := s.transports.ListAvailableWithinBox(ctx, geo.BoundingBox(q.Source, radiusKm), q.DepartureDate)
	if err != nil {
		return nil, err
	}
	matches, err := geo.FindNearby(q.Source, radiusKm, candidates, func(t domain.Transport) (domain.Location, bool) {
		return t.Source.Location, true
	})
	if err != nil {
		return nil, err
	}
	if q.Destination != nil {
		dest := *q.Destination
		matches = lo.Filter(matches, func(m geo.Match[domain.Transport], _ int) bool {
			return geo.Haversine(dest, m.Item.Destination.Location) <= radiusKm
		})
	}
	return paginate(matches, q.Page), nil
}

func orDefault(radiusKm *float64, def float64) float64 {
	if radiusKm == nil {
		return def
	}
	return *radiusKm
}

// paginate applies page after distance ordering.
func paginate[T any](items []T, page domain.Page) []T {
	page = page.Normalize()
	return lo.Subset(items, page.Offset, uint(page.Limit))
}
