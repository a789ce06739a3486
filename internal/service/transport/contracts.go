//go:generate mockgen -source=contracts.go -destination=transport_mocks_test.go -package=transport_test

package transport

import (
	"context"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/ports/transporttx"
)

// Repository is the storage used by the transport service.
type Repository interface {
	transporttx.Runner
	Get(ctx context.Context, id int64) (*domain.Transport, error)
	ListByInitiator(ctx context.Context, userID int64, page domain.Page) ([]domain.Transport, error)
	ListParticipations(ctx context.Context, userID int64, page domain.Page) ([]domain.Transport, error)
}

// Publisher emits marketplace events after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// OutcomeCounter records participation outcomes.
type OutcomeCounter interface {
	Inc(aggregate, outcome string)
}
