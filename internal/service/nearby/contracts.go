package nearby

import (
	"context"
	"time"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/geo"
)

// UserRepository returns located users inside a bounding box.
type UserRepository interface {
	ListWithinBox(ctx context.Context, f domain.UserFilter, box geo.Box) ([]domain.User, error)
}

// GroupOrderRepository returns joinable group orders inside a bounding box.
type GroupOrderRepository interface {
	ListOpenWithinBox(ctx context.Context, box geo.Box, now time.Time) ([]domain.GroupOrder, error)
}

// TransportRepository returns available transports departing inside a bounding box.
type TransportRepository interface {
	ListAvailableWithinBox(ctx context.Context, box geo.Box, departureDay *time.Time) ([]domain.Transport, error)
}
