package domain

import "time"

// Transport is a shared vehicle trip whose capacity and cost are split among
// participants. The initiator is participant #1 with no cargo.
type Transport struct {
	ID                   int64
	Name                 string
	Description          string
	VehicleType          string
	Capacity             float64
	CapacityUnit         string
	Cost                 float64
	Status               TransportStatus
	Source               Place
	Destination          Place
	DepartureTime        time.Time
	EstimatedArrivalTime time.Time
	CurrentCapacityUsed  float64
	MaxParticipants      int
	CurrentParticipants  int
	InitiatorID          int64
	DriverName           string
	DriverContact        string
	Participants         []TransportParticipant
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RemainingCapacity returns the capacity still free.
func (t *Transport) RemainingCapacity() float64 {
	return t.Capacity - t.CurrentCapacityUsed
}

// Participant returns the participation with the given id.
func (t *Transport) Participant(id int64) *TransportParticipant {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}
	return nil
}

// ActiveParticipation returns the user's non-cancelled participation, if any.
func (t *Transport) ActiveParticipation(userID int64) *TransportParticipant {
	for i := range t.Participants {
		p := &t.Participants[i]
		if p.UserID == userID && p.Status.Active() {
			return p
		}
	}
	return nil
}

// Cargo is what a participant brings onto a transport.
type Cargo struct {
	OrderID *int64
	Pickup  Place
	Drop    Place
	Weight  float64
	Volume  *float64
}

// TransportParticipant is a user's share of a transport.
type TransportParticipant struct {
	ID          int64
	TransportID int64
	UserID      int64
	Cargo       Cargo
	CostShare   float64
	Status      ParticipationStatus
	JoinedAt    time.Time
}

// TransportQuery describes a route search for available transports.
type TransportQuery struct {
	Source        Location
	Destination   *Location
	RadiusKm      *float64
	DepartureDate *time.Time
	Page          Page
}
