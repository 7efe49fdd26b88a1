package ports

import (
	"context"

	"fleet-route-service/internal/domain"
)

// Port: a boundary for persisting routes, stops and stop-order links.
//
// Concurrent invocations against the same route are not serialized here;
// callers (or the backing store) must prevent two writers mutating one route
// at a time.
type RouteRepository interface {
	// FindRouteByID loads a route with its stops ordered by sequence.
	// Returns a NotFoundError when the route does not exist or belongs to a
	// different business.
	FindRouteByID(ctx context.Context, businessID, routeID string) (*domain.Route, error)

	// CreateRoute persists a new route and fills in its generated ID.
	CreateRoute(ctx context.Context, route *domain.Route) error

	// CreateStop persists a new stop and fills in its generated ID.
	CreateStop(ctx context.Context, stop *domain.RouteStop) error

	DeleteStop(ctx context.Context, stopID string) error

	// CreateStopOrder persists a stop-order link and fills in its generated ID.
	CreateStopOrder(ctx context.Context, link *domain.RouteStopOrder) error

	// FindStopOrder returns the link for an order within a route, or
	// (nil, nil) when the order is not linked to any stop of the route.
	FindStopOrder(ctx context.Context, routeID, orderID string) (*domain.RouteStopOrder, error)

	DeleteStopOrder(ctx context.Context, linkID string) error

	// CountStopOrders returns the number of links attached to a stop.
	CountStopOrders(ctx context.Context, stopID string) (int, error)

	// UpdateRouteTotals persists recomputed weight/item aggregates.
	UpdateRouteTotals(ctx context.Context, routeID string, totalWeight float64, totalItems int) error

	// UpdateRouteMetrics persists total distance and estimated duration.
	UpdateRouteMetrics(ctx context.Context, routeID string, distanceKm float64, durationMin int) error
}
