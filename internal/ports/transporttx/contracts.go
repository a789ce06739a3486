package transporttx

import (
	"context"

	"vendorconnect/internal/domain"
)

// Repository is the transactional view of a transport aggregate. Reads lock
// the aggregate row until the transaction ends.
type Repository interface {
	GetTransportForUpdate(ctx context.Context, id int64) (*domain.Transport, error)
	InsertTransport(ctx context.Context, t *domain.Transport) error
	InsertTransportParticipant(ctx context.Context, p *domain.TransportParticipant) error
	UpdateTransportParticipantStatus(ctx context.Context, id int64, status domain.ParticipationStatus) error
	UpdateTransportState(ctx context.Context, t *domain.Transport) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
