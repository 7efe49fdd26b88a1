package domain

import "time"

type RouteStatus string

// Route lifecycle: PLANNED -> ASSIGNED -> IN_PROGRESS -> COMPLETED, with
// CANCELLED reachable from any non-terminal status.
const (
	RouteStatusPlanned    RouteStatus = "PLANNED"
	RouteStatusAssigned   RouteStatus = "ASSIGNED"
	RouteStatusInProgress RouteStatus = "IN_PROGRESS"
	RouteStatusCompleted  RouteStatus = "COMPLETED"
	RouteStatusCancelled  RouteStatus = "CANCELLED"
)

// ActiveRouteStatuses are the statuses during which a route's orders count as
// committed: an order linked to a stop of an active route is not eligible for
// new assignment.
var ActiveRouteStatuses = []RouteStatus{RouteStatusPlanned, RouteStatusAssigned, RouteStatusInProgress}

type RouteType string

const (
	RouteTypePickup   RouteType = "PICKUP"
	RouteTypeDelivery RouteType = "DELIVERY"
	RouteTypeMixed    RouteType = "MIXED"
)

type StopType string

const (
	StopTypePickup   StopType = "PICKUP"
	StopTypeDelivery StopType = "DELIVERY"
)

type StopStatus string

const (
	StopStatusPending    StopStatus = "PENDING"
	StopStatusInProgress StopStatus = "IN_PROGRESS"
	StopStatusCompleted  StopStatus = "COMPLETED"
	StopStatusFailed     StopStatus = "FAILED"
)

// Route is a vehicle's planned itinerary for a date.
type Route struct {
	ID         string
	BusinessID string
	Name       string
	Type       RouteType
	Status     RouteStatus
	VehicleID  string

	PlannedDate  time.Time
	PlannedStart *time.Time
	PlannedEnd   *time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time

	TotalDistanceKm      float64
	EstimatedDurationMin int
	ActualDurationMin    int
	TotalWeight          float64
	TotalItems           int

	OptimizationStrategy string
	OptimizationScore    float64
	Notes                string

	Stops []*RouteStop
}

// Modifiable reports whether the route still accepts stop mutation
// (add/remove order). Only PLANNED and ASSIGNED routes do.
func (r *Route) Modifiable() bool {
	return r.Status == RouteStatusPlanned || r.Status == RouteStatusAssigned
}

// CurrentLoad sums weight and item count over the route's stops.
func (r *Route) CurrentLoad() (weight float64, items int) {
	for _, s := range r.Stops {
		weight += s.Weight
		items += s.ItemCount
	}
	return weight, items
}

// StopCoordinates collects the coordinates of stops that have them, in
// sequence order.
func (r *Route) StopCoordinates() []Coordinates {
	coords := make([]Coordinates, 0, len(r.Stops))
	for _, s := range r.Stops {
		if s.Coords != nil {
			coords = append(coords, *s.Coords)
		}
	}
	return coords
}

// RouteStop is one visit within a route, owned exclusively by its Route.
// Sequence is 1-based and defines the visiting order.
type RouteStop struct {
	ID       string
	RouteID  string
	Sequence int
	Type     StopType
	Status   StopStatus

	Address string
	Coords  *Coordinates

	CustomerID    string
	CustomerName  string
	CustomerPhone string

	PlannedArrival   *time.Time
	PlannedDeparture *time.Time

	ItemCount int
	Weight    float64
}

// RouteStopOrder links a stop to an order. Multiple orders may share one stop
// (same address); Sequence orders them within the stop. Deleting the last
// link for a stop deletes the stop — a convention enforced in code, not by a
// database constraint.
type RouteStopOrder struct {
	ID       string
	StopID   string
	OrderID  string
	Action   StopType
	Sequence int
}
