package services

import (
	"context"
	"fmt"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/geo"
	"fleet-route-service/internal/ports"
)

// StopRole selects which side of a route an order query targets.
type StopRole string

const (
	RolePickup   StopRole = "pickup"
	RoleDelivery StopRole = "delivery"
)

// Placeholder heuristic: 2 weight-units per line-item quantity unit. Orders
// carry no declared weight yet, so the estimate scales with item count.
const weightPerItemUnit = 2.0

// DefaultNearbyRadiusKm bounds NearbyDeliveryOrders when the caller passes no
// radius.
const DefaultNearbyRadiusKm = 5.0

func statusesForRoles(roles []StopRole) []domain.OrderStatus {
	statuses := make([]domain.OrderStatus, 0, 4)
	for _, r := range roles {
		switch r {
		case RolePickup:
			statuses = append(statuses, domain.PickupEligibleStatuses...)
		case RoleDelivery:
			statuses = append(statuses, domain.DeliveryEligibleStatuses...)
		}
	}
	return statuses
}

// EligibleOrders returns the orders currently eligible for route assignment
// in the requested role(s): status admitted by the role, and not linked to a
// stop of any active route. An empty result is normal, not an error.
//
// The repository returns rows already ordered (priority desc, relevant date
// asc, creation asc); the weight estimate is derived here so every caller
// sees the same heuristic.
func EligibleOrders(
	ctx context.Context,
	businessID string,
	roles []StopRole,
	repo ports.OrderRepository,
) ([]*domain.OrderLocationData, error) {
	if businessID == "" {
		return nil, &domain.InvalidInputError{Message: "eligible orders: businessID is required"}
	}

	statuses := statusesForRoles(roles)
	if len(statuses) == 0 {
		return nil, &domain.InvalidInputError{Message: "eligible orders: at least one role is required"}
	}

	orders, err := repo.FindEligibleOrders(ctx, businessID, statuses, true)
	if err != nil {
		return nil, fmt.Errorf("eligible orders: find eligible orders: %w", err)
	}

	for _, o := range orders {
		o.EstimatedWeight = float64(o.ItemCount) * weightPerItemUnit
	}

	return orders, nil
}

// NearbyDeliveryOrders returns eligible delivery orders within radiusKm of
// the given location. Orders without delivery coordinates are excluded.
func NearbyDeliveryOrders(
	ctx context.Context,
	businessID string,
	location domain.Coordinates,
	radiusKm float64,
	repo ports.OrderRepository,
) ([]*domain.OrderLocationData, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}

	orders, err := EligibleOrders(ctx, businessID, []StopRole{RoleDelivery}, repo)
	if err != nil {
		return nil, fmt.Errorf("nearby delivery orders: %w", err)
	}

	nearby := make([]*domain.OrderLocationData, 0, len(orders))
	for _, o := range orders {
		if o.DeliveryCoords == nil {
			continue
		}
		if geo.IsWithinRadius(location, *o.DeliveryCoords, radiusKm) {
			nearby = append(nearby, o)
		}
	}

	return nearby, nil
}
