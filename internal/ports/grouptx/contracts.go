package grouptx

import (
	"context"

	"vendorconnect/internal/domain"
)

// Repository is the transactional view of a group order aggregate. Reads lock
// the aggregate row until the transaction ends.
type Repository interface {
	GetGroupOrderForUpdate(ctx context.Context, id int64) (*domain.GroupOrder, error)
	GetProducts(ctx context.Context, ids []int64) ([]domain.Product, error)
	InsertGroupOrder(ctx context.Context, g *domain.GroupOrder) error
	InsertGroupOrderParticipant(ctx context.Context, p *domain.GroupOrderParticipant) error
	UpdateGroupOrderParticipantStatus(ctx context.Context, id int64, status domain.ParticipationStatus) error
	UpdateGroupOrderState(ctx context.Context, g *domain.GroupOrder) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
