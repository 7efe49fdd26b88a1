package services

import (
	"context"
	"fmt"
	"log"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/geo"
	"fleet-route-service/internal/ports"
)

// DefaultMaxStops caps the number of stops per route when the caller passes
// no limit.
const DefaultMaxStops = 20

// AssignOptions tunes a single assignment pass. MaxDistanceKm and
// MaxDurationMin are accepted for forward compatibility but not enforced yet.
type AssignOptions struct {
	MaxStops         int
	MaxDistanceKm    float64
	MaxDurationMin   int
	PrioritizeUrgent bool

	// Capacity overrides; when zero the vehicle's own ceilings apply.
	VehicleCapacityWeight float64
	VehicleCapacityItems  int
}

// AssignmentResult reports the outcome of one assignment pass. Success stays
// true even when individual orders were skipped: partial success is the
// normal case. SkippedOrders lists only orders whose stop/link creation
// failed; orders excluded by the capacity filter are dropped silently and
// appear in neither list.
type AssignmentResult struct {
	Success       bool
	RouteID       string
	RouteName     string
	AssignedStops int
	SkippedOrders []string
	Message       string
}

// AssignOrdersToRoute pulls eligible orders, filters them against the
// vehicle's remaining capacity, orders them around the route's current
// geographic center and appends them as new stops.
func AssignOrdersToRoute(
	ctx context.Context,
	routeID, businessID string,
	opts AssignOptions,
	routes ports.RouteRepository,
	vehicles ports.VehicleRepository,
	orders ports.OrderRepository,
) (*AssignmentResult, error) {
	if routeID == "" || businessID == "" {
		return nil, &domain.InvalidInputError{Message: "assign orders: routeID and businessID are required"}
	}

	route, err := routes.FindRouteByID(ctx, businessID, routeID)
	if err != nil {
		return nil, fmt.Errorf("assign orders: load route: %w", err)
	}

	if route.Status != domain.RouteStatusPlanned {
		return nil, &domain.InvalidStateError{
			Code:    domain.CodeRouteNotModifiable,
			Status:  string(route.Status),
			Message: "orders can only be assigned while the route is planned",
		}
	}

	vehicle, err := vehicles.FindVehicleByID(ctx, businessID, route.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("assign orders: load vehicle: %w", err)
	}

	currentWeight, currentItems := route.CurrentLoad()

	maxWeight := vehicle.MaxWeightKg
	if opts.VehicleCapacityWeight > 0 {
		maxWeight = opts.VehicleCapacityWeight
	}
	maxItems := vehicle.MaxItems
	if opts.VehicleCapacityItems > 0 {
		maxItems = opts.VehicleCapacityItems
	}

	maxStops := opts.MaxStops
	if maxStops <= 0 {
		maxStops = DefaultMaxStops
	}

	eligible, err := EligibleOrders(ctx, businessID, []StopRole{RolePickup, RoleDelivery}, orders)
	if err != nil {
		return nil, fmt.Errorf("assign orders: %w", err)
	}

	result := &AssignmentResult{
		Success:       true,
		RouteID:       route.ID,
		RouteName:     route.Name,
		SkippedOrders: []string{},
	}

	if len(eligible) == 0 {
		result.Message = "No eligible orders to assign"
		return result, nil
	}

	candidates := orderCandidates(route, eligible, opts.PrioritizeUrgent)

	maxAdditional := maxStops - len(route.Stops)
	if maxAdditional < 0 {
		maxAdditional = 0
	}
	accepted := FilterFeasible(candidates, currentWeight, currentItems, maxWeight, maxItems, maxAdditional)

	addedWeight := 0.0
	addedItems := 0
	nextSequence := len(route.Stops) + 1

	for _, order := range accepted {
		if err := createStopForOrder(ctx, routes, route, order, nextSequence); err != nil {
			// Per-order failures never abort the batch; record and continue.
			log.Printf("assign orders: route=%s order=%s skipped: %v", route.ID, order.OrderNumber, err)
			result.SkippedOrders = append(result.SkippedOrders, order.OrderNumber)
			continue
		}

		nextSequence++
		result.AssignedStops++
		addedWeight += order.EstimatedWeight
		addedItems += order.ItemCount
	}

	if result.AssignedStops > 0 {
		newWeight := currentWeight + addedWeight
		newItems := currentItems + addedItems
		if err := routes.UpdateRouteTotals(ctx, route.ID, newWeight, newItems); err != nil {
			return nil, fmt.Errorf("assign orders: update route totals: %w", err)
		}
	}

	result.Message = fmt.Sprintf("Assigned %d orders to route %s", result.AssignedStops, route.Name)
	return result, nil
}

// orderCandidates decides the order in which eligible orders compete for
// capacity. With urgent prioritization the compound priority/distance sort
// applies; otherwise pure distance to the route's current center. Orders
// without coordinates are kept (appended last) rather than silently dropped.
func orderCandidates(route *domain.Route, eligible []*domain.OrderLocationData, prioritizeUrgent bool) []*domain.OrderLocationData {
	stopCoords := route.StopCoordinates()
	if len(stopCoords) == 0 {
		// No geographic anchor yet; keep the repository's priority ordering.
		return eligible
	}

	center, err := geo.CenterPoint(stopCoords)
	if err != nil {
		return eligible
	}

	if prioritizeUrgent {
		return PrioritizedOrder(eligible, center)
	}

	sorted := geo.SortByDistance(center, eligible, func(o *domain.OrderLocationData) *domain.Coordinates {
		return o.RoutingCoords()
	})
	for _, o := range eligible {
		if o.RoutingCoords() == nil {
			sorted = append(sorted, o)
		}
	}
	return sorted
}

// createStopForOrder appends one stop at the given sequence and links the
// order to it. A stop left behind by a failed link is removed best-effort so
// the sequence stays contiguous.
func createStopForOrder(
	ctx context.Context,
	routes ports.RouteRepository,
	route *domain.Route,
	order *domain.OrderLocationData,
	sequence int,
) error {
	stop := &domain.RouteStop{
		RouteID:       route.ID,
		Sequence:      sequence,
		Type:          order.StopType(),
		Status:        domain.StopStatusPending,
		Address:       order.RoutingAddress(),
		Coords:        order.RoutingCoords(),
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		ItemCount:     order.ItemCount,
		Weight:        order.EstimatedWeight,
	}

	if err := routes.CreateStop(ctx, stop); err != nil {
		return fmt.Errorf("create stop: %w", err)
	}

	link := &domain.RouteStopOrder{
		StopID:   stop.ID,
		OrderID:  order.OrderID,
		Action:   order.StopType(),
		Sequence: 1,
	}
	if err := routes.CreateStopOrder(ctx, link); err != nil {
		if delErr := routes.DeleteStop(ctx, stop.ID); delErr != nil {
			log.Printf("assign orders: cleanup stop %s failed: %v", stop.ID, delErr)
		}
		return fmt.Errorf("create stop order link: %w", err)
	}

	return nil
}

// RemovalResult reports the outcome of removing an order from a route.
type RemovalResult struct {
	Success bool
	Message string
}

// RemoveOrderFromRoute unlinks an order from its stop within the route,
// deleting the stop when its last link goes, then recomputes route totals.
// Removing an order that is not linked is an idempotent no-op.
func RemoveOrderFromRoute(
	ctx context.Context,
	routeID, orderID, businessID string,
	routes ports.RouteRepository,
) (*RemovalResult, error) {
	if routeID == "" || orderID == "" || businessID == "" {
		return nil, &domain.InvalidInputError{Message: "remove order: routeID, orderID and businessID are required"}
	}

	route, err := routes.FindRouteByID(ctx, businessID, routeID)
	if err != nil {
		return nil, fmt.Errorf("remove order: load route: %w", err)
	}

	if !route.Modifiable() {
		return nil, &domain.InvalidStateError{
			Code:    domain.CodeRouteNotModifiable,
			Status:  string(route.Status),
			Message: "orders can only be removed from planned or assigned routes",
		}
	}

	link, err := routes.FindStopOrder(ctx, route.ID, orderID)
	if err != nil {
		return nil, fmt.Errorf("remove order: find stop order link: %w", err)
	}
	if link == nil {
		return &RemovalResult{Success: true, Message: "Order is not linked to this route"}, nil
	}

	if err := routes.DeleteStopOrder(ctx, link.ID); err != nil {
		return nil, fmt.Errorf("remove order: delete stop order link: %w", err)
	}

	remaining, err := routes.CountStopOrders(ctx, link.StopID)
	if err != nil {
		return nil, fmt.Errorf("remove order: count stop order links: %w", err)
	}
	if remaining == 0 {
		if err := routes.DeleteStop(ctx, link.StopID); err != nil {
			return nil, fmt.Errorf("remove order: delete empty stop: %w", err)
		}
	}

	// Recompute totals from what actually remains rather than subtracting.
	updated, err := routes.FindRouteByID(ctx, businessID, routeID)
	if err != nil {
		return nil, fmt.Errorf("remove order: reload route: %w", err)
	}
	weight, items := updated.CurrentLoad()
	if err := routes.UpdateRouteTotals(ctx, route.ID, weight, items); err != nil {
		return nil, fmt.Errorf("remove order: update route totals: %w", err)
	}

	return &RemovalResult{Success: true, Message: "Order removed from route"}, nil
}
