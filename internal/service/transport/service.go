package transport

import (
	"context"
	"fmt"
	"time"

	"vendorconnect/internal/accountant"
	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
	"vendorconnect/internal/metrics"
	"vendorconnect/internal/ports/transporttx"
)

const aggregate = domain.AggregateTransport

// Service runs shared transport use cases. Mutations are serialized per
// transport by Locks and by a row lock inside the transaction.
type Service struct {
	repo             Repository
	locks            *accountant.Locks
	publisher        Publisher
	outcomes         OutcomeCounter
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a transport Service.
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

// Create opens a new transport initiated by actor.
func (s *Service) Create(ctx context.Context, actor domain.Actor, t *domain.Transport) (*domain.Transport, error) {
	if actor.Role != domain.RoleVendor {
		return nil, fmt.Errorf("%w: only vendors can offer transports", apperr.ErrForbidden)
	}
	if err := accountant.ValidateTransport(t); err != nil {
		return nil, err
	}
	now := s.now()
	if !t.DepartureTime.After(now) {
		return nil, fmt.Errorf("%w: departure must be in the future", apperr.ErrInvalidArgument)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t.InitiatorID = actor.ID
	accountant.OpenTransport(t, now)
	err := s.repo.WithTx(ctx, func(tx transporttx.Repository) error {
		return tx.InsertTransport(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transport created",
		logx.String("event", "transport_created"),
		logx.Int64("transport_id", t.ID),
		logx.Int64("initiator_id", actor.ID),
		logx.Float64("capacity", t.Capacity),
	)
	return t, nil
}

// Get returns a transport with its participants.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Transport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.ErrNotFound
	}
	return t, nil
}

// ListInitiated returns transports the actor created.
func (s *Service) ListInitiated(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByInitiator(ctx, actor.ID, page.Normalize())
}

// ListParticipations returns transports the actor takes part in.
func (s *Service) ListParticipations(ctx context.Context, actor domain.Actor, page domain.Page) ([]domain.Transport, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListParticipations(ctx, actor.ID, page.Normalize())
}

// Join adds the actor's cargo to a transport. The participation stays pending
// until the initiator confirms it.
func (s *Service) Join(ctx context.Context, actor domain.Actor, id int64, cargo domain.Cargo) (domain.TransportParticipant, error) {
	var p domain.TransportParticipant
	err := s.mutate(ctx, id, func(ctx context.Context, tx transporttx.Repository, t *domain.Transport) error {
		var err error
		p, err = accountant.JoinTransport(t, actor.ID, cargo, s.now())
		if err != nil {
			return err
		}
		if err := tx.InsertTransportParticipant(ctx, &p); err != nil {
			return err
		}
		return tx.UpdateTransportState(ctx, t)
	})
	s.outcomes.Inc(string(aggregate), "join_"+metrics.Outcome(err))
	if err != nil {
		return domain.TransportParticipant{}, err
	}

	s.logger.Info("participation joined",
		logx.String("event", "participation_joined"),
		logx.Int64("transport_id", id),
		logx.Int64("participation_id", p.ID),
		logx.Int64("user_id", actor.ID),
		logx.Float64("cargo_weight", p.Cargo.Weight),
		logx.Float64("cost_share", p.CostShare),
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

// SetParticipantStatus lets the initiator confirm or cancel a participation.
func (s *Service) SetParticipantStatus(
	ctx context.Context,
	actor domain.Actor,
	id, participationID int64,
	status domain.ParticipationStatus,
) (domain.TransportParticipant, error) {
	switch status {
	case domain.ParticipationConfirmed:
		return s.confirm(ctx, actor, id, participationID)
	case domain.ParticipationCancelled:
		return s.cancel(ctx, actor, id, participationID, true)
	default:
		return domain.TransportParticipant{}, fmt.Errorf("%w: status must be confirmed or cancelled", apperr.ErrInvalidArgument)
	}
}

// CancelParticipation cancels a participation on behalf of its owner or the
// transport initiator.
func (s *Service) CancelParticipation(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.TransportParticipant, error) {
	return s.cancel(ctx, actor, id, participationID, false)
}

// TransitionStatus moves the transport along its lifecycle. Only the initiator may do so.
func (s *Service) TransitionStatus(ctx context.Context, actor domain.Actor, id int64, to domain.TransportStatus) (*domain.Transport, error) {
	var out *domain.Transport
	var from domain.TransportStatus
	err := s.mutate(ctx, id, func(ctx context.Context, tx transporttx.Repository, t *domain.Transport) error {
		if t.InitiatorID != actor.ID {
			return fmt.Errorf("%w: only the initiator can change transport status", apperr.ErrForbidden)
		}
		from = t.Status
		if err := accountant.TransitionTransport(t, to); err != nil {
			return err
		}
		out = t
		return tx.UpdateTransportState(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transport status changed",
		logx.String("event", "status_changed"),
		logx.Int64("transport_id", id),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
	)
	s.publish(ctx, domain.Event{
		Type:        domain.EventStatusChanged,
		Aggregate:   aggregate,
		AggregateID: id,
		ActorID:     actor.ID,
		Status:      string(to),
	})
	return out, nil
}

func (s *Service) confirm(ctx context.Context, actor domain.Actor, id, participationID int64) (domain.TransportParticipant, error) {
	var p domain.TransportParticipant
	err := s.mutate(ctx, id, func(ctx context.Context, tx transporttx.Repository, t *domain.Transport) error {
		if t.InitiatorID != actor.ID {
			return fmt.Errorf("%w: only the initiator can approve participants", apperr.ErrForbidden)
		}
		confirmed, err := accountant.ConfirmTransportParticipation(t, participationID)
		if err != nil {
			return err
		}
		p = *confirmed
		return tx.UpdateTransportParticipantStatus(ctx, p.ID, p.Status)
	})
	if err != nil {
		return domain.TransportParticipant{}, err
	}

	s.logger.Info("participation confirmed",
		logx.String("event", "participation_confirmed"),
		logx.Int64("transport_id", id),
		logx.Int64("participation_id", participationID),
	)
	s.publish(ctx, domain.Event{
		Type:            domain.EventParticipationConfirmed,
		Aggregate:       aggregate,
		AggregateID:     id,
		ParticipationID: participationID,
		ActorID:         actor.ID,
		Status:          string(p.Status),
	})
	return p, nil
}

func (s *Service) cancel(ctx context.Context, actor domain.Actor, id, participationID int64, initiatorOnly bool) (domain.TransportParticipant, error) {
	var p domain.TransportParticipant
	err := s.mutate(ctx, id, func(ctx context.Context, tx transporttx.Repository, t *domain.Transport) error {
		target := t.Participant(participationID)
		if target == nil {
			return apperr.ErrNotFound
		}
		isInitiator := t.InitiatorID == actor.ID
		if !isInitiator && (initiatorOnly || target.UserID != actor.ID) {
			return fmt.Errorf("%w: participation belongs to another user", apperr.ErrForbidden)
		}
		if target.UserID == t.InitiatorID {
			return fmt.Errorf("%w: the initiator cannot leave; cancel the transport instead", apperr.ErrInvalidTransition)
		}
		cancelled, err := accountant.CancelTransportParticipation(t, participationID)
		if err != nil {
			return err
		}
		p = *cancelled
		if err := tx.UpdateTransportParticipantStatus(ctx, p.ID, p.Status); err != nil {
			return err
		}
		return tx.UpdateTransportState(ctx, t)
	})
	s.outcomes.Inc(string(aggregate), "cancel_"+metrics.Outcome(err))
	if err != nil {
		return domain.TransportParticipant{}, err
	}

	s.logger.Info("participation cancelled",
		logx.String("event", "participation_cancelled"),
		logx.Int64("transport_id", id),
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

// mutate runs fn on the locked transport inside a transaction.
func (s *Service) mutate(
	ctx context.Context,
	id int64,
	fn func(ctx context.Context, tx transporttx.Repository, t *domain.Transport) error,
) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, accountant.Key(aggregate, id))
	if err != nil {
		return fmt.Errorf("lock transport %d: %w", id, err)
	}
	defer unlock()

	return s.repo.WithTx(ctx, func(tx transporttx.Repository) error {
		t, err := tx.GetTransportForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.ErrNotFound
		}
		return fn(ctx, tx, t)
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
			logx.Int64("transport_id", ev.AggregateID),
			logx.Err(err),
		)
	}
}
