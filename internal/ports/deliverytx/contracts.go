package deliverytx

import (
	"context"

	"vendorconnect/internal/domain"
)

// Repository is the transactional view used to schedule and track deliveries.
type Repository interface {
	GetGroupOrderForUpdate(ctx context.Context, id int64) (*domain.GroupOrder, error)
	UpdateGroupOrderState(ctx context.Context, g *domain.GroupOrder) error
	GetDeliveryByGroupOrder(ctx context.Context, groupOrderID int64) (*domain.Delivery, error)
	GetDeliveryForUpdate(ctx context.Context, id int64) (*domain.Delivery, error)
	InsertDelivery(ctx context.Context, d *domain.Delivery) error
	UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
