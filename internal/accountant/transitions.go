// Package accountant enforces participant and capacity rules on group orders
// and shared transports. Functions mutate the aggregate value passed in and
// never touch storage; callers serialize access per aggregate with Locks.
package accountant

import (
	"fmt"

	"vendorconnect/internal/apperr"
	"vendorconnect/internal/domain"
)

var groupOrderEdges = map[domain.GroupOrderStatus][]domain.GroupOrderStatus{
	domain.GroupOrderOpen:       {domain.GroupOrderClosed, domain.GroupOrderCancelled},
	domain.GroupOrderClosed:     {domain.GroupOrderProcessing, domain.GroupOrderCancelled},
	domain.GroupOrderProcessing: {domain.GroupOrderCompleted, domain.GroupOrderCancelled},
}

var transportEdges = map[domain.TransportStatus][]domain.TransportStatus{
	domain.TransportAvailable: {domain.TransportBooked, domain.TransportCancelled},
	domain.TransportBooked:    {domain.TransportInTransit, domain.TransportCancelled},
	domain.TransportInTransit: {domain.TransportCompleted, domain.TransportCancelled},
}

// CanTransitionGroupOrder reports whether from -> to is an allowed edge.
func CanTransitionGroupOrder(from, to domain.GroupOrderStatus) bool {
	for _, s := range groupOrderEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionTransport reports whether from -> to is an allowed edge.
func CanTransitionTransport(from, to domain.TransportStatus) bool {
	for _, s := range transportEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionGroupOrder moves g to status to.
func TransitionGroupOrder(g *domain.GroupOrder, to domain.GroupOrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown group order status %q", apperr.ErrInvalidTransition, to)
	}
	if !CanTransitionGroupOrder(g.Status, to) {
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, g.Status, to)
	}
	g.Status = to
	return nil
}

// TransitionTransport moves t to status to.
func TransitionTransport(t *domain.Transport, to domain.TransportStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown transport status %q", apperr.ErrInvalidTransition, to)
	}
	if !CanTransitionTransport(t.Status, to) {
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, t.Status, to)
	}
	t.Status = to
	return nil
}

var deliveryEdges = map[domain.DeliveryStatus]domain.DeliveryStatus{
	domain.DeliveryScheduled: domain.DeliveryInTransit,
	domain.DeliveryInTransit: domain.DeliveryDelivered,
}

// TransitionDelivery moves d one step forward along scheduled -> in_transit -> delivered.
func TransitionDelivery(d *domain.Delivery, to domain.DeliveryStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown delivery status %q", apperr.ErrInvalidTransition, to)
	}
	if next, ok := deliveryEdges[d.Status]; !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, d.Status, to)
	}
	d.Status = to
	return nil
}
