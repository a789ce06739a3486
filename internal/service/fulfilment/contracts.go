//go:generate mockgen -source=contracts.go -destination=fulfilment_mocks_test.go -package=fulfilment_test

package fulfilment

import (
	"context"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/ports/deliverytx"
)

// Repository is the storage used by the fulfilment service.
type Repository interface {
	deliverytx.Runner
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
}

// Publisher emits marketplace events after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// Scheduler creates the delivery of a group order.
type Scheduler interface {
	Schedule(ctx context.Context, groupOrderID int64) (*domain.Delivery, error)
}
