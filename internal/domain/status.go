package domain

// ParticipationStatus is the lifecycle state of a participation.
type ParticipationStatus string

// Participation statuses.
const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationConfirmed ParticipationStatus = "confirmed"
	ParticipationCancelled ParticipationStatus = "cancelled"
)

// Active reports whether the participation still counts toward the aggregate.
func (s ParticipationStatus) Active() bool {
	return s == ParticipationPending || s == ParticipationConfirmed
}

// GroupOrderStatus is the lifecycle state of a group order.
type GroupOrderStatus string

// Group order statuses.
const (
	GroupOrderOpen       GroupOrderStatus = "open"
	GroupOrderClosed     GroupOrderStatus = "closed"
	GroupOrderProcessing GroupOrderStatus = "processing"
	GroupOrderCompleted  GroupOrderStatus = "completed"
	GroupOrderCancelled  GroupOrderStatus = "cancelled"
)

var groupOrderStatuses = [...]GroupOrderStatus{
	GroupOrderOpen, GroupOrderClosed, GroupOrderProcessing, GroupOrderCompleted, GroupOrderCancelled,
}

// Valid reports whether s is a member of the group order state set.
func (s GroupOrderStatus) Valid() bool {
	for _, v := range groupOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TransportStatus is the lifecycle state of a shared transport.
type TransportStatus string

// Transport statuses.
const (
	TransportAvailable TransportStatus = "available"
	TransportBooked    TransportStatus = "booked"
	TransportInTransit TransportStatus = "in_transit"
	TransportCompleted TransportStatus = "completed"
	TransportCancelled TransportStatus = "cancelled"
)

var transportStatuses = [...]TransportStatus{
	TransportAvailable, TransportBooked, TransportInTransit, TransportCompleted, TransportCancelled,
}

// Valid reports whether s is a member of the transport state set.
func (s TransportStatus) Valid() bool {
	for _, v := range transportStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DeliveryStatus is the lifecycle state of a group order delivery.
type DeliveryStatus string

// Delivery statuses.
const (
	DeliveryScheduled DeliveryStatus = "scheduled"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
)

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	return s == DeliveryScheduled || s == DeliveryInTransit || s == DeliveryDelivered
}
