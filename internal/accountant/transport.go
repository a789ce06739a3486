package accountant

import (
	"fmt"
	"math"
	"time"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
)

// capacityTolerance absorbs float drift when cargo weights sum to exactly the capacity.
const capacityTolerance = 1e-9

// CostShare prorates cost by the fraction of capacity the cargo occupies.
func CostShare(cargoWeight, capacity, cost float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return cargoWeight / capacity * cost
}

// ValidateTransport checks a transport before it is created.
func ValidateTransport(t *domain.Transport) error {
	switch {
	case !finite(t.Capacity) || t.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", apperr.ErrInvalidArgument)
	case !finite(t.Cost) || t.Cost < 0:
		return fmt.Errorf("%w: cost must not be negative", apperr.ErrInvalidArgument)
	case t.MaxParticipants < 1:
		return fmt.Errorf("%w: max participants must be at least 1", apperr.ErrInvalidArgument)
	case !t.Source.Location.Valid() || !t.Destination.Location.Valid():
		return fmt.Errorf("%w: route location out of range", apperr.ErrInvalidArgument)
	case !t.EstimatedArrivalTime.After(t.DepartureTime):
		return fmt.Errorf("%w: arrival must be after departure", apperr.ErrInvalidArgument)
	}
	return nil
}

// OpenTransport initializes a new transport with its initiator as the first,
// already confirmed, participant carrying no cargo.
func OpenTransport(t *domain.Transport, now time.Time) {
	t.Status = domain.TransportAvailable
	t.CurrentCapacityUsed = 0
	t.CurrentParticipants = 1
	t.Participants = []domain.TransportParticipant{{
		UserID: t.InitiatorID,
		Cargo: domain.Cargo{
			Pickup: t.Source,
			Drop:   t.Destination,
		},
		Status:   domain.ParticipationConfirmed,
		JoinedAt: now,
	}}
}

// JoinTransport adds userID's cargo to t. The new participation is pending
// until the initiator confirms it and is appended to t.Participants.
//
// Checks run in order: joinable state, duplicate participation, participant
// cap, remaining capacity.
func JoinTransport(t *domain.Transport, userID int64, cargo domain.Cargo, now time.Time) (domain.TransportParticipant, error) {
	if err := validateCargo(cargo); err != nil {
		return domain.TransportParticipant{}, err
	}
	if t.Status != domain.TransportAvailable {
		return domain.TransportParticipant{}, fmt.Errorf("%w: transport is %s", apperr.ErrNotJoinable, t.Status)
	}
	if t.ActiveParticipation(userID) != nil {
		return domain.TransportParticipant{}, apperr.ErrAlreadyJoined
	}
	if t.CurrentParticipants >= t.MaxParticipants {
		return domain.TransportParticipant{}, apperr.ErrParticipantLimitReached
	}
	used := t.CurrentCapacityUsed + cargo.Weight
	if used > t.Capacity+capacityTolerance*math.Max(1, t.Capacity) {
		return domain.TransportParticipant{}, fmt.Errorf("%w: %.2f %s available",
			apperr.ErrCapacityExceeded, t.RemainingCapacity(), t.CapacityUnit)
	}

	p := domain.TransportParticipant{
		TransportID: t.ID,
		UserID:      userID,
		Cargo:       cargo,
		CostShare:   CostShare(cargo.Weight, t.Capacity, t.Cost),
		Status:      domain.ParticipationPending,
		JoinedAt:    now,
	}
	t.CurrentParticipants++
	// Stored rows are checked against capacity, so drift above it is clamped.
	t.CurrentCapacityUsed = math.Min(used, t.Capacity)
	t.Participants = append(t.Participants, p)
	return p, nil
}

// ConfirmTransportParticipation approves a pending participation.
func ConfirmTransportParticipation(t *domain.Transport, participationID int64) (*domain.TransportParticipant, error) {
	p := t.Participant(participationID)
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	switch p.Status {
	case domain.ParticipationCancelled:
		return nil, apperr.ErrAlreadyCancelled
	case domain.ParticipationConfirmed:
		return nil, fmt.Errorf("%w: participation already confirmed", apperr.ErrInvalidTransition)
	}
	p.Status = domain.ParticipationConfirmed
	return p, nil
}

// CancelTransportParticipation cancels a participation and releases its
// capacity and seat.
func CancelTransportParticipation(t *domain.Transport, participationID int64) (*domain.TransportParticipant, error) {
	p := t.Participant(participationID)
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	if p.Status == domain.ParticipationCancelled {
		return nil, apperr.ErrAlreadyCancelled
	}
	p.Status = domain.ParticipationCancelled
	t.CurrentParticipants = max(0, t.CurrentParticipants-1)
	t.CurrentCapacityUsed = math.Max(0, t.CurrentCapacityUsed-p.Cargo.Weight)
	return p, nil
}

func validateCargo(c domain.Cargo) error {
	if !finite(c.Weight) || c.Weight <= 0 {
		return fmt.Errorf("%w: cargo weight must be positive", apperr.ErrInvalidArgument)
	}
	if c.Volume != nil && (!finite(*c.Volume) || *c.Volume < 0) {
		return fmt.Errorf("%w: cargo volume must not be negative", apperr.ErrInvalidArgument)
	}
	if !c.Pickup.Location.Valid() || !c.Drop.Location.Valid() {
		return fmt.Errorf("%w: pickup or drop location out of range", apperr.ErrInvalidArgument)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
