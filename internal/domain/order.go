package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusProcessing       OrderStatus = "PROCESSING"
	OrderStatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	OrderStatusOutForDelivery   OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// PickupEligibleStatuses admit an order as a pickup candidate; delivery
// candidates must already be prepared or en route.
var (
	PickupEligibleStatuses   = []OrderStatus{OrderStatusPending, OrderStatusConfirmed}
	DeliveryEligibleStatuses = []OrderStatus{OrderStatusReadyForDelivery, OrderStatusOutForDelivery}
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Weight maps a priority to its sort weight. Unrecognized values rank as NORMAL.
func (p Priority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// OrderLocationData is a transient routing projection over an order, its
// customer and its line items. It is rebuilt on every query cycle and never
// persisted as its own entity.
type OrderLocationData struct {
	OrderID       string
	OrderNumber   string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Status        OrderStatus
	Priority      Priority

	PickupAddress   string
	DeliveryAddress string
	PickupCoords    *Coordinates
	DeliveryCoords  *Coordinates
	PickupDate      *time.Time
	DeliveryDate    *time.Time

	EstimatedWeight float64
	ItemCount       int
	TotalAmount     float64
}

// IsPickup reports whether the order's status places it on the pickup side of
// a route (otherwise it is treated as a delivery).
func (o *OrderLocationData) IsPickup() bool {
	for _, s := range PickupEligibleStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// StopType returns the stop role this order would occupy in a route.
func (o *OrderLocationData) StopType() StopType {
	if o.IsPickup() {
		return StopTypePickup
	}
	return StopTypeDelivery
}

// RoutingCoords returns the coordinate relevant for routing this order:
// pickup coordinates for pickup-side orders, delivery coordinates otherwise.
// Nil when the relevant side has no coordinates.
func (o *OrderLocationData) RoutingCoords() *Coordinates {
	if o.IsPickup() {
		return o.PickupCoords
	}
	return o.DeliveryCoords
}

// RoutingAddress returns the address matching RoutingCoords.
func (o *OrderLocationData) RoutingAddress() string {
	if o.IsPickup() {
		return o.PickupAddress
	}
	return o.DeliveryAddress
}
