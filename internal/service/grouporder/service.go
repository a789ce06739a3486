package grouporder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"vendorconnect/internal/accountant"
	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/metrics"
	"vendorconnect/internal/ports/grouptx"
)

const (
	aggregate = domain.AggregateGroupOrder
	// sweepBatch bounds how many expired orders one CloseExpired call handles.
	sweepBatch = 100
)

// Service runs group order use cases.
type Service struct {
	repo             Repository
	locks            *accountant.Locks
	publisher        Publisher
	outcomes         OutcomeCounter
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a group order Service.
func NewService(
	repo Repository,
	locks *accountant.Locks,
	publisher Publisher,
	outcomes OutcomeCounter,
	timeout time.Duration,
	logger logx.Logger,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if outcomes == nil {
		outcomes = nopCounter{}
	}
	return &Service{
		repo:             repo,
		locks:            locks,
		publisher:        publisher,
		outcomes:         outcomes,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create opens a group order initiated by actor. Item prices and suppliers are
// taken from the product catalogue.
func (s *Service) Create(ctx context.Context, actor domain.Actor, g *domain.GroupOrder) (*domain.GroupOrder, error) {
	if actor.Role != domain.RoleVendor {
		return nil, fmt.Errorf("%w: only vendors can start group orders", apperr.ErrForbidden)
	}
	if g.MinParticipants == 0 {
		g.MinParticipants = domain.DefaultMinParticipants
	}
	if g.LocationRadiusKm == 0 {
		g.LocationRadiusKm = domain.DefaultLocationRadiusKm
	}
	now := s.now()
	if err := accountant.ValidateGroupOrder(g, now); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g.InitiatorID = actor.ID
	err := s.repo.WithTx(ctx, func(tx grouptx.Repository) error {
		ids := lo.Uniq(lo.Map(g.Items, func(it domain.GroupOrderItem, _ int) int64 { return it.ProductID }))
		products, err := tx.GetProducts(ctx, ids)
		if err != nil {
			return err
		}
		byID := lo.KeyBy(products, func(p domain.Product) int64 { return p.ID })
		for i := range g.Items {
			p, ok := byID[g.Items[i].ProductID]
			if !ok {
				return fmt.Errorf("%w: unknown product %d", apperr.ErrInvalidArgument, g.Items[i].ProductID)
			}
			g.Items[i].SupplierID = p.SupplierID
			g.Items[i].UnitPrice = p.Price
		}
		accountant.OpenGroupOrder(g, now)
		return tx.InsertGroupOrder(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group order created",
		logx.String("event", "group_order_created"),
		logx.Int64("group_order_id", g.ID),
		logx.Int64("initiator_id", actor.ID),
		logx.Int("items", len(g.Items)),
		logx.Time("deadline", g.Deadline),
	)
	return g, nil
}

// Get returns a group order with its items and participants.
func (s *Service) Get(ctx context.Context, id int64) (*domain.GroupOrder, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, apperr.ErrNotFound
	}
	return g, nil
}

// ListInitiated returns group orders the actor started, optionally filtered by status.
func (s *Service) ListInitiated(
	ctx context.Context,
	actor domain.Actor,
	status *domain.GroupOrderStatus,
	page domain.Page,
) ([]domain.GroupOrder, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidArgument, *status)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByInitiator(ctx, actor.ID, status, page.Normalize())
}

// Join adds the actor with the given amount.
func (s *Service) Join(ctx context.Context, actor domain.Actor, id int64, amount float64) (domain.GroupOrderParticipant, error) {
	var p domain.GroupOrderParticipant
	err := s.mutate(ctx, id, func(ctx context.Context, tx grouptx.Repository, g *domain.GroupOrder) error {
		var err error
		p, err = accountant.JoinGroupOrder(g, actor.ID, amount, s.now())
		if err != nil {
			return err
		}
		if err := tx.InsertGroupOrderParticipant(ctx, &p); err != nil {
			return err
		}
		return tx.UpdateGroupOrderState(ctx, g)
	})
	s.outcomes.Inc(string(aggregate), "join_"+metrics.Outcome(err))
	if err != nil {
		return domain.GroupOrderParticipant{}, err
	}

	s.logger.Info("participation joined",
		logx.String("event", "participation_joined"),
		logx.Int64("group_order_id", id),
		logx.Int64("participation_id", p.ID),
		logx.Int64("user_id", actor.ID),
		logx.Float64("amount", amount),
	)
	s.publish(ctx, domain.Event{
		Type:            domain.EventParticipationJoined,
		Aggregate:       aggregate,
		AggregateID:     id,
		ParticipationID: p.ID,
		ActorID:         actor.ID,
		Status:          string(p.Status),
	})
	return p, nil
}

// CancelParticipation withdraws a participation on behalf of its owner or the initiator.
func (s *Service) CancelParticipation(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.GroupOrderParticipant, error) {
	var p domain.GroupOrderParticipant
	err := s.mutate(ctx, id, func(ctx context.Context, tx grouptx.Repository, g *domain.GroupOrder) error {
		target := g.Participant(participationID)
		if target == nil {
			return apperr.ErrNotFound
		}
		if g.InitiatorID != actor.ID && target.UserID != actor.ID {
			return fmt.Errorf("%w: participation belongs to another user", apperr.ErrForbidden)
		}
		if target.UserID == g.InitiatorID {
			return fmt.Errorf("%w: the initiator cannot leave; cancel the group order instead", apperr.ErrInvalidTransition)
		}
		cancelled, err := accountant.CancelGroupOrderParticipation(g, participationID)
		if err != nil {
			return err
		}
		p = *cancelled
		if err := tx.UpdateGroupOrderParticipantStatus(ctx, p.ID, p.Status); err != nil {
			return err
		}
		return tx.UpdateGroupOrderState(ctx, g)
	})
	s.outcomes.Inc(string(aggregate), "cancel_"+metrics.Outcome(err))
	if err != nil {
		return domain.GroupOrderParticipant{}, err
	}

	s.logger.Info("participation cancelled",
		logx.String("event", "participation_cancelled"),
		logx.Int64("group_order_id", id),
		logx.Int64("participation_id", participationID),
		logx.Int64("actor_id", actor.ID),
	)
	s.publish(ctx, domain.Event{
		Type:            domain.EventParticipationCancelled,
		Aggregate:       aggregate,
		AggregateID:     id,
		ParticipationID: participationID,
		ActorID:         actor.ID,
		Status:          string(p.Status),
	})
	return p, nil
}

// TransitionStatus moves the group order along its lifecycle. Only the initiator may do so.
func (s *Service) TransitionStatus(ctx context.Context, actor domain.Actor, id int64, to domain.GroupOrderStatus) (*domain.GroupOrder, error) {
	return s.transition(ctx, id, to, actor.ID, func(g *domain.GroupOrder) error {
		if g.InitiatorID != actor.ID {
			return fmt.Errorf("%w: only the initiator can change group order status", apperr.ErrForbidden)
		}
		return nil
	})
}

// CloseExpired closes open group orders whose deadline has passed and returns
// how many were closed. Failures on single orders are logged and skipped.
func (s *Service) CloseExpired(ctx context.Context) (int, error) {
	listCtx, cancel := s.withTimeout(ctx)
	ids, err := s.repo.ListExpiredOpen(listCtx, s.now(), sweepBatch)
	cancel()
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return closed, ctx.Err()
		}
		_, err := s.transition(ctx, id, domain.GroupOrderClosed, 0, func(g *domain.GroupOrder) error {
			if g.Joinable(s.now()) {
				return errStillOpen
			}
			return nil
		})
		switch {
		case err == nil:
			closed++
		case errors.Is(err, errStillOpen):
		default:
			s.logger.Warn("close expired group order failed",
				logx.Int64("group_order_id", id),
				logx.Err(err),
			)
		}
	}
	if closed > 0 {
		s.logger.Info("expired group orders closed", logx.Int("count", closed))
	}
	return closed, nil
}

var errStillOpen = errors.New("group order still open")

func (s *Service) transition(
	ctx context.Context,
	id int64,
	to domain.GroupOrderStatus,
	actorID int64,
	check func(g *domain.GroupOrder) error,
) (*domain.GroupOrder, error) {
	var (
		out  *domain.GroupOrder
		from domain.GroupOrderStatus
	)
	err := s.mutate(ctx, id, func(ctx context.Context, tx grouptx.Repository, g *domain.GroupOrder) error {
		if err := check(g); err != nil {
			return err
		}
		from = g.Status
		if err := accountant.TransitionGroupOrder(g, to); err != nil {
			return err
		}
		out = g
		return tx.UpdateGroupOrderState(ctx, g)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group order status changed",
		logx.String("event", "status_changed"),
		logx.Int64("group_order_id", id),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
	)
	s.publish(ctx, domain.Event{
		Type:        domain.EventStatusChanged,
		Aggregate:   aggregate,
		AggregateID: id,
		ActorID:     actorID,
		Status:      string(to),
	})
	return out, nil
}

// mutate runs fn on the locked group order inside a transaction.
func (s *Service) mutate(
	ctx context.Context,
	id int64,
	fn func(ctx context.Context, tx grouptx.Repository, g *domain.GroupOrder) error,
) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, accountant.Key(aggregate, id))
	if err != nil {
		return fmt.Errorf("lock group order %d: %w", id, err)
	}
	defer unlock()

	return s.repo.WithTx(ctx, func(tx grouptx.Repository) error {
		g, err := tx.GetGroupOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if g == nil {
			return apperr.ErrNotFound
		}
		return fn(ctx, tx, g)
	})
}

type nopCounter struct{}

func (nopCounter) Inc(string, string) {}

func (s *Service) publish(ctx context.Context, ev domain.Event) {
	if s.publisher == nil {
		return
	}
	ev.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("event publish failed",
			logx.String("type", string(ev.Type)),
			logx.Int64("group_order_id", ev.AggregateID),
			logx.Err(err),
		)
	}
}
