package fulfilment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendorconnect/internal/accountant"
	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/ports/deliverytx"
)

// Service schedules and tracks group order deliveries.
type Service struct {
	repo             Repository
	locks            *accountant.Locks
	publisher        Publisher
	trackingBaseURL  string
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a fulfilment Service.
func NewService(
	repo Repository,
	locks *accountant.Locks,
	publisher Publisher,
	trackingBaseURL string,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             repo,
		locks:            locks,
		publisher:        publisher,
		trackingBaseURL:  strings.TrimRight(trackingBaseURL, "/"),
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// TrackingLink returns the public tracking URL of a group order.
func (s *Service) TrackingLink(groupOrderID int64) string {
	return fmt.Sprintf("%s/track/%d", s.trackingBaseURL, groupOrderID)
}

// Schedule creates the delivery of a processing group order. It is idempotent:
// an existing delivery is returned as is, and an order that is no longer
// processing yields nil.
func (s *Service) Schedule(ctx context.Context, groupOrderID int64) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, accountant.Key(domain.AggregateGroupOrder, groupOrderID))
	if err != nil {
		return nil, fmt.Errorf("lock group order %d: %w", groupOrderID, err)
	}
	defer unlock()

	var (
		d       *domain.Delivery
		created bool
	)
	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		g, err := tx.GetGroupOrderForUpdate(ctx, groupOrderID)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("group order %d: %w", groupOrderID, apperr.ErrNotFound)
		}
		existing, err := tx.GetDeliveryByGroupOrder(ctx, groupOrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			d = existing
			return nil
		}
		if g.Status != domain.GroupOrderProcessing {
			return nil
		}

		d = &domain.Delivery{
			GroupOrderID: groupOrderID,
			DeliveryDate: g.DeliveryDate,
			Status:       domain.DeliveryScheduled,
			TrackingLink: s.TrackingLink(groupOrderID),
		}
		created = true
		return tx.InsertDelivery(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	switch {
	case d == nil:
		s.logger.Debug("delivery not scheduled, group order not processing",
			logx.Int64("group_order_id", groupOrderID))
	case created:
		s.logger.Info("delivery scheduled",
			logx.String("event", "delivery_scheduled"),
			logx.Int64("group_order_id", groupOrderID),
			logx.Int64("delivery_id", d.ID),
			logx.String("tracking_link", d.TrackingLink),
		)
		s.publish(ctx, domain.Event{
			Type:        domain.EventStatusChanged,
			Aggregate:   domain.AggregateDelivery,
			AggregateID: d.ID,
			Status:      string(d.Status),
		})
	}
	return d, nil
}

// Get returns a delivery.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// UpdateStatus advances a delivery. Only the group order initiator may do so.
// A delivered delivery completes its group order.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, to domain.DeliveryStatus) (*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, accountant.Key(domain.AggregateDelivery, id))
	if err != nil {
		return nil, fmt.Errorf("lock delivery %d: %w", id, err)
	}
	defer unlock()

	var (
		d         *domain.Delivery
		completed bool
	)
	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		var err error
		d, err = tx.GetDeliveryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}
		g, err := tx.GetGroupOrderForUpdate(ctx, d.GroupOrderID)
		if err != nil {
			return err
		}
		if g == nil {
			return fmt.Errorf("group order %d: %w", d.GroupOrderID, apperr.ErrNotFound)
		}
		if g.InitiatorID != actor.ID {
			return fmt.Errorf("%w: only the group order initiator can update its delivery", apperr.ErrForbidden)
		}
		if err := accountant.TransitionDelivery(d, to); err != nil {
			return err
		}
		if err := tx.UpdateDeliveryStatus(ctx, d.ID, d.Status); err != nil {
			return err
		}
		if to != domain.DeliveryDelivered || g.Status != domain.GroupOrderProcessing {
			return nil
		}
		if err := accountant.TransitionGroupOrder(g, domain.GroupOrderCompleted); err != nil {
			return err
		}
		completed = true
		return tx.UpdateGroupOrderState(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery status changed",
		logx.String("event", "status_changed"),
		logx.Int64("delivery_id", id),
		logx.String("to", string(to)),
		logx.Bool("group_order_completed", completed),
	)
	s.publish(ctx, domain.Event{
		Type:        domain.EventStatusChanged,
		Aggregate:   domain.AggregateDelivery,
		AggregateID: id,
		ActorID:     actor.ID,
		Status:      string(to),
	})
	if completed {
		s.publish(ctx, domain.Event{
			Type:        domain.EventStatusChanged,
			Aggregate:   domain.AggregateGroupOrder,
			AggregateID: d.GroupOrderID,
			ActorID:     actor.ID,
			Status:      string(domain.GroupOrderCompleted),
		})
	}
	return d, nil
}

func (s *Service) publish(ctx context.Context, ev domain.Event) {
	if s.publisher == nil {
		return
	}
	ev.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("event publish failed",
			logx.String("type", string(ev.Type)),
			logx.String("aggregate", string(ev.Aggregate)),
			logx.Int64("aggregate_id", ev.AggregateID),
			logx.Err(err),
		)
	}
}
