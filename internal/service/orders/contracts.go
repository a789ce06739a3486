//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"vendorconnect/internal/domain"
)

// Repository is the order storage used by the service.
type Repository interface {
	Insert(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	ListByVendor(ctx context.Context, vendorID int64, f domain.OrderFilter, page domain.Page) ([]domain.Order, error)
	ListBySupplier(ctx context.Context, supplierID int64, f domain.OrderFilter, page domain.Page) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, o *domain.Order, from domain.OrderStatus) (bool, error)
}

// Catalogue prices order lines.
type Catalogue interface {
	GetMany(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// Publisher emits marketplace events after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}
