package domain

import "time"

// OrderStatus is the lifecycle state of a vendor order.
type OrderStatus string

// Order statuses.
const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderShipped, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a vendor's direct purchase from one or more suppliers.
// GroupOrderID and TransportID only reference the aggregates; joining them goes
// through their own participation operations.
type Order struct {
	ID              int64
	VendorID        int64
	GroupOrderID    *int64
	TransportID     *int64
	TotalAmount     float64
	Status          OrderStatus
	DeliveryAddress string
	DeliveryDate    *time.Time
	DeliverySlot    string
	Notes           string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is one product line of an order, priced when the order was placed.
type OrderItem struct {
	ID         int64
	OrderID    int64
	ProductID  int64
	SupplierID int64
	Quantity   float64
	UnitPrice  float64
	TotalPrice float64
}

// HasSupplier reports whether any line of o is sold by supplierID.
func (o Order) HasSupplier(supplierID int64) bool {
	for _, it := range o.Items {
		if it.SupplierID == supplierID {
			return true
		}
	}
	return false
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Status *OrderStatus
}
