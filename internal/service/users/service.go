package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
	"vendorconnect/internal/logx"
)

// Repository is the user storage used by the service.
type Repository interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	UpdateLocation(ctx context.Context, id int64, loc domain.Location, address *string) (bool, error)
}

// Service exposes the profile operations of the current user.
type Service struct {
	repo             Repository
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates a users Service.
func NewService(repo Repository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, operationTimeout: timeout, logger: logger}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get returns a user profile.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

// UpdateLocation sets the actor's coordinates and, when given, address.
func (s *Service) UpdateLocation(ctx context.Context, actor domain.Actor, loc domain.Location, address *string) (*domain.User, error) {
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: location out of range", apperr.ErrInvalidArgument)
	}
	if address != nil {
		trimmed := strings.TrimSpace(*address)
		address = &trimmed
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdateLocation(ctx, actor.ID, loc, address)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrNotFound
	}
	s.logger.Info("location updated",
		logx.String("event", "location_updated"),
		logx.Int64("user_id", actor.ID),
	)

	u, err := s.repo.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}
