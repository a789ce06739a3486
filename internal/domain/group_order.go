package domain

import "time"

// Group order defaults applied at creation.
const (
	DefaultMinParticipants  = 2
	DefaultLocationRadiusKm = 5
)

// GroupOrder pools purchases from several vendors. The initiator is counted as
// the first participant.
type GroupOrder struct {
	ID                  int64
	Name                string
	Description         string
	InitiatorID         int64
	Status              GroupOrderStatus
	MinParticipants     int
	MaxParticipants     *int
	CurrentParticipants int
	TargetAmount        *float64
	CurrentAmount       float64
	DiscountRate        *float64
	Deadline            time.Time
	DeliveryDate        *time.Time
	LocationRadiusKm    float64
	Location            Location
	Items               []GroupOrderItem
	Participants        []GroupOrderParticipant
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Joinable reports whether the order accepts participants at now.
func (g *GroupOrder) Joinable(now time.Time) bool {
	return g.Status == GroupOrderOpen && now.Before(g.Deadline)
}

// Participant returns the participation with the given id.
func (g *GroupOrder) Participant(id int64) *GroupOrderParticipant {
	for i := range g.Participants {
		if g.Participants[i].ID == id {
			return &g.Participants[i]
		}
	}
	return nil
}

// ActiveParticipation returns the user's non-cancelled participation, if any.
func (g *GroupOrder) ActiveParticipation(userID int64) *GroupOrderParticipant {
	for i := range g.Participants {
		p := &g.Participants[i]
		if p.UserID == userID && p.Status.Active() {
			return p
		}
	}
	return nil
}

// GroupOrderItem is one product line of a group order.
type GroupOrderItem struct {
	ID                     int64
	GroupOrderID           int64
	ProductID              int64
	SupplierID             int64
	TotalQuantity          float64
	UnitPrice              float64
	BulkDiscountPrice      *float64
	MinQuantityForDiscount *float64
}

// GroupOrderParticipant is a vendor's participation in a group order.
type GroupOrderParticipant struct {
	ID           int64
	GroupOrderID int64
	UserID       int64
	Amount       float64
	Status       ParticipationStatus
	JoinedAt     time.Time
}
