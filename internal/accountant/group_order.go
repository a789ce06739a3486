package accountant

import (
	"fmt"
	"math"
	"time"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
)

// ValidateGroupOrder checks a group order before it is created.
func ValidateGroupOrder(g *domain.GroupOrder, now time.Time) error {
	switch {
	case !g.Deadline.After(now):
		return fmt.Errorf("%w: deadline must be in the future", apperr.ErrInvalidArgument)
	case !g.Location.Valid():
		return fmt.Errorf("%w: location out of range", apperr.ErrInvalidArgument)
	case g.MinParticipants < 1:
		return fmt.Errorf("%w: min participants must be at least 1", apperr.ErrInvalidArgument)
	case g.MaxParticipants != nil && *g.MaxParticipants < g.MinParticipants:
		return fmt.Errorf("%w: max participants below min participants", apperr.ErrInvalidArgument)
	case !finite(g.LocationRadiusKm) || g.LocationRadiusKm <= 0:
		return fmt.Errorf("%w: location radius must be positive", apperr.ErrInvalidArgument)
	case g.DiscountRate != nil && (*g.DiscountRate < 0 || *g.DiscountRate > 100):
		return fmt.Errorf("%w: discount rate must be within 0..100", apperr.ErrInvalidArgument)
	case g.TargetAmount != nil && (!finite(*g.TargetAmount) || *g.TargetAmount < 0):
		return fmt.Errorf("%w: target amount must not be negative", apperr.ErrInvalidArgument)
	case len(g.Items) == 0:
		return fmt.Errorf("%w: at least one item is required", apperr.ErrInvalidArgument)
	}
	for _, it := range g.Items {
		if !finite(it.TotalQuantity) || it.TotalQuantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", apperr.ErrInvalidArgument)
		}
	}
	return nil
}

// OpenGroupOrder initializes a new group order with the initiator counted as
// the first participant.
func OpenGroupOrder(g *domain.GroupOrder, now time.Time) {
	g.Status = domain.GroupOrderOpen
	g.CurrentParticipants = 1
	g.CurrentAmount = 0
	g.Participants = []domain.GroupOrderParticipant{{
		UserID:   g.InitiatorID,
		Status:   domain.ParticipationConfirmed,
		JoinedAt: now,
	}}
}

// JoinGroupOrder adds userID to g with the given amount. Group order
// participations count immediately.
func JoinGroupOrder(g *domain.GroupOrder, userID int64, amount float64, now time.Time) (domain.GroupOrderParticipant, error) {
	if !finite(amount) || amount < 0 {
		return domain.GroupOrderParticipant{}, fmt.Errorf("%w: amount must not be negative", apperr.ErrInvalidArgument)
	}
	if !g.Joinable(now) {
		return domain.GroupOrderParticipant{}, fmt.Errorf("%w: group order is %s or past its deadline", apperr.ErrNotJoinable, g.Status)
	}
	if g.ActiveParticipation(userID) != nil {
		return domain.GroupOrderParticipant{}, apperr.ErrAlreadyJoined
	}
	if g.MaxParticipants != nil && g.CurrentParticipants >= *g.MaxParticipants {
		return domain.GroupOrderParticipant{}, apperr.ErrParticipantLimitReached
	}

	p := domain.GroupOrderParticipant{
		GroupOrderID: g.ID,
		UserID:       userID,
		Amount:       amount,
		Status:       domain.ParticipationConfirmed,
		JoinedAt:     now,
	}
	g.CurrentParticipants++
	g.CurrentAmount += amount
	g.Participants = append(g.Participants, p)
	return p, nil
}

// CancelGroupOrderParticipation cancels a participation and withdraws its amount.
func CancelGroupOrderParticipation(g *domain.GroupOrder, participationID int64) (*domain.GroupOrderParticipant, error) {
	p := g.Participant(participationID)
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	if p.Status == domain.ParticipationCancelled {
		return nil, apperr.ErrAlreadyCancelled
	}
	p.Status = domain.ParticipationCancelled
	g.CurrentParticipants = max(0, g.CurrentParticipants-1)
	g.CurrentAmount = math.Max(0, g.CurrentAmount-p.Amount)
	return p, nil
}
