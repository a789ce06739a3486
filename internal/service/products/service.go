package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

const defaultUnit = "kg"

// Service runs the supplier catalogue. Only the owning supplier may change a product.
type Service struct {
	repo             Repository
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a products Service.
func NewService(repo Repository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{repo: repo, operationTimeout: timeout, logger: logger}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get returns a product.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

// List returns one page of the available catalogue.
func (s *Service) List(ctx context.Context, f domain.ProductFilter, page domain.Page) ([]domain.Product, error) {
	if f.SortBy != "" && !f.SortBy.Valid() {
		return nil, fmt.Errorf("%w: unknown sort %q", apperr.ErrInvalidArgument, f.SortBy)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, fmt.Errorf("%w: min price above max price", apperr.ErrInvalidArgument)
	}
	f.Search = strings.TrimSpace(f.Search)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, f, page.Normalize())
}

// Create adds a product to the actor's catalogue.
func (s *Service) Create(ctx context.Context, actor domain.Actor, p *domain.Product) (*domain.Product, error) {
	if actor.Role != domain.RoleSupplier {
		return nil, fmt.Errorf("%w: only suppliers can list products", apperr.ErrForbidden)
	}
	p.SupplierID = actor.ID
	normalize(p)
	if err := validate(p); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		logx.String("event", "product_created"),
		logx.Int64("product_id", p.ID),
		logx.Int64("supplier_id", actor.ID),
	)
	return p, nil
}

// Update applies patch to a product owned by actor.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	normalize(p)
	if err := validate(p); err != nil {
		return nil, err
	}

	ok, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
	}
	s.logger.Info("product updated",
		logx.String("event", "product_updated"),
		logx.Int64("product_id", id),
		logx.Int64("supplier_id", actor.ID),
	)
	return p, nil
}

// Delete removes a product owned by actor.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
	}
	s.logger.Info("product deleted",
		logx.String("event", "product_deleted"),
		logx.Int64("product_id", id),
		logx.Int64("supplier_id", actor.ID),
	)
	return nil
}

func (s *Service) owned(ctx context.Context, actor domain.Actor, id int64) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
	}
	if p.SupplierID != actor.ID {
		return nil, fmt.Errorf("%w: product %d belongs to another supplier", apperr.ErrForbidden, id)
	}
	return p, nil
}

func normalize(p *domain.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.SubCategory = strings.TrimSpace(p.SubCategory)
	p.Unit = strings.TrimSpace(p.Unit)
	if p.Unit == "" {
		p.Unit = defaultUnit
	}
	if p.MinOrderQuantity == 0 {
		p.MinOrderQuantity = 1
	}
}

func validate(p *domain.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", apperr.ErrInvalidArgument)
	case p.Category == "":
		return fmt.Errorf("%w: category is required", apperr.ErrInvalidArgument)
	case !(p.Price >= 0):
		return fmt.Errorf("%w: price must not be negative", apperr.ErrInvalidArgument)
	case !(p.MinOrderQuantity > 0):
		return fmt.Errorf("%w: minimum order quantity must be positive", apperr.ErrInvalidArgument)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", apperr.ErrInvalidArgument)
	}
	if d := p.DiscountedPrice; d != nil && (!(*d >= 0) || *d > p.Price) {
		return fmt.Errorf("%w: discounted price must be between 0 and the price", apperr.ErrInvalidArgument)
	}
	return nil
}
