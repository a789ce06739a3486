package domain

import "time"

// Delivery tracks the fulfilment of a group order. There is at most one per order.
type Delivery struct {
	ID           int64
	GroupOrderID int64
	DeliveryDate *time.Time
	Status       DeliveryStatus
	TrackingLink string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
