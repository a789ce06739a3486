//go:generate mockgen -source=contracts.go -destination=products_mocks_test.go -package=products_test

package products

import (
	"context"

	"vendorconnect/internal/domain"
)

// Repository is the catalogue storage used by the service.
type Repository interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter, page domain.Page) ([]domain.Product, error)
	Insert(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) (bool, error)
	Delete(ctx context.Context, id, supplierID int64) (bool, error)
}
