//go:generate mockgen -source=contracts.go -destination=grouporder_mocks_test.go -package=grouporder_test

package grouporder

import (
	"context"
	"time"

	"vendorconnect/internal/domain"
	"vendorconnect/internal/ports/grouptx"
)

// Repository is the storage used by the group order service.
type Repository interface {
	grouptx.Runner
	Get(ctx context.Context, id int64) (*domain.GroupOrder, error)
	ListByInitiator(ctx context.Context, userID int64, status *domain.GroupOrderStatus, page domain.Page) ([]domain.GroupOrder, error)
	ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]int64, error)
}

// Publisher emits marketplace events after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// OutcomeCounter records participation outcomes.
type OutcomeCounter interface {
	Inc(aggregate, outcome string)
}
