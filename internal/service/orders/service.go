package orders

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// Service runs vendor orders. Vendors own their orders; a supplier sees an
// order through the lines that sell its products.
type Service struct {
	repo             Repository
	catalogue        Catalogue
	publisher        Publisher
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates an orders Service.
func NewService(repo Repository, catalogue Catalogue, publisher Publisher, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		catalogue:        catalogue,
		publisher:        publisher,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create places an order for actor. Each line is priced from the catalogue;
// only ProductID and Quantity of the given lines are read.
func (s *Service) Create(ctx context.Context, actor domain.Actor, o *domain.Order) (*domain.Order, error) {
	if actor.Role != domain.RoleVendor {
		return nil, fmt.Errorf("%w: only vendors can place orders", apperr.ErrForbidden)
	}
	o.DeliveryAddress = strings.TrimSpace(o.DeliveryAddress)
	if o.DeliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery address is required", apperr.ErrInvalidArgument)
	}
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", apperr.ErrInvalidArgument)
	}

	ids := make([]int64, 0, len(o.Items))
	seen := make(map[int64]struct{}, len(o.Items))
	for _, it := range o.Items {
		if !(it.Quantity > 0) {
			return nil, fmt.Errorf("%w: quantity of product %d must be positive", apperr.ErrInvalidArgument, it.ProductID)
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: product %d is listed twice", apperr.ErrInvalidArgument, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	found, err := s.catalogue.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var total float64
	for i := range o.Items {
		it := &o.Items[i]
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, apperr.ErrNotFound)
		}
		if !p.IsAvailable {
			return nil, fmt.Errorf("%w: product %s is not available", apperr.ErrInvalidArgument, p.Name)
		}
		if it.Quantity < p.MinOrderQuantity {
			return nil, fmt.Errorf("%w: minimum order quantity for %s is %g %s",
				apperr.ErrInvalidArgument, p.Name, p.MinOrderQuantity, p.Unit)
		}
		it.SupplierID = p.SupplierID
		it.UnitPrice = p.UnitPrice()
		it.TotalPrice = cents(it.UnitPrice * it.Quantity)
		total += it.TotalPrice
	}

	o.ID = 0
	o.VendorID = actor.ID
	o.Status = domain.OrderPending
	o.TotalAmount = cents(total)
	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		logx.String("event", "order_placed"),
		logx.Int64("order_id", o.ID),
		logx.Int64("vendor_id", actor.ID),
		logx.Int("items", len(o.Items)),
	)
	return o, nil
}

// Get returns an order visible to actor. Orders the actor may not see are
// reported as not found.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.visible(ctx, actor, id)
}

// List returns one page of the orders visible to actor, newest first.
func (s *Service) List(ctx context.Context, actor domain.Actor, f domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidArgument, *f.Status)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	page = page.Normalize()
	if actor.Role == domain.RoleSupplier {
		return s.repo.ListBySupplier(ctx, actor.ID, f, page)
	}
	return s.repo.ListByVendor(ctx, actor.ID, f, page)
}

// UpdateStatus moves an order along its lifecycle. The vendor may cancel or
// confirm delivery; a supplier may advance the order but not cancel it.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, to domain.OrderStatus) (*domain.Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidArgument, to)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case domain.RoleVendor:
		if to != domain.OrderCancelled && to != domain.OrderDelivered {
			return nil, fmt.Errorf("%w: vendors can only cancel orders or mark them delivered", apperr.ErrForbidden)
		}
	case domain.RoleSupplier:
		if to == domain.OrderCancelled {
			return nil, fmt.Errorf("%w: suppliers cannot cancel orders", apperr.ErrForbidden)
		}
	}

	from := o.Status
	if !from.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s to %s", apperr.ErrInvalidTransition, from, to)
	}
	o.Status = to
	ok, err := s.repo.UpdateStatus(ctx, o, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %d changed concurrently", apperr.ErrInvalidTransition, id)
	}

	s.logger.Info("order status changed",
		logx.String("event", "order_status_changed"),
		logx.Int64("order_id", id),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
	)
	s.publish(ctx, domain.Event{
		Type:        domain.EventStatusChanged,
		Aggregate:   domain.AggregateOrder,
		AggregateID: id,
		ActorID:     actor.ID,
		Status:      string(to),
	})
	return o, nil
}

func (s *Service) visible(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	notFound := fmt.Errorf("order %d: %w", id, apperr.ErrNotFound)
	if o == nil {
		return nil, notFound
	}
	switch actor.Role {
	case domain.RoleVendor:
		if o.VendorID != actor.ID {
			return nil, notFound
		}
	case domain.RoleSupplier:
		if !o.HasSupplier(actor.ID) {
			return nil, notFound
		}
		o.Items = supplierLines(o.Items, actor.ID)
	default:
		return nil, notFound
	}
	return o, nil
}

func (s *Service) publish(ctx context.Context, ev domain.Event) {
	if s.publisher == nil {
		return
	}
	ev.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("event publish failed",
			logx.String("type", string(ev.Type)),
			logx.Int64("order_id", ev.AggregateID),
			logx.Err(err),
		)
	}
}

func supplierLines(items []domain.OrderItem, supplierID int64) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		if it.SupplierID == supplierID {
			out = append(out, it)
		}
	}
	return out
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
