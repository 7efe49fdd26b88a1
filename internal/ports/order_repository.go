package ports

import (
	"context"

	"fleet-route-service/internal/domain"
)

// Port: a boundary for retrieving order routing projections from a data source.
type OrderRepository interface {
	// FindEligibleOrders returns routing projections for orders of the given
	// business whose status is in statuses. When excludeActiveRouteLinked is
	// set, orders already linked to a stop of a PLANNED/ASSIGNED/IN_PROGRESS
	// route are excluded. Results are ordered by priority weight descending,
	// then relevant date ascending, then creation time ascending.
	FindEligibleOrders(ctx context.Context, businessID string, statuses []domain.OrderStatus, excludeActiveRouteLinked bool) ([]*domain.OrderLocationData, error)

	// FindOrderByID returns the routing projection for a single order.
	FindOrderByID(ctx context.Context, businessID, orderID string) (*domain.OrderLocationData, error)
}
