package services

import (
	"context"
	"fmt"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
)

// DefaultSuggestMaxStops caps pickup route suggestions when the caller
// passes no limit.
const DefaultSuggestMaxStops = 10

// SuggestPickupRoute proposes a pickup visiting order for a vehicle starting
// at its current location: eligible pickup orders sequenced nearest-neighbor
// from there, truncated to maxStops. Nothing is persisted; the suggestion is
// advisory.
func SuggestPickupRoute(
	ctx context.Context,
	businessID, vehicleID string,
	currentLocation domain.Coordinates,
	maxStops int,
	vehicles ports.VehicleRepository,
	orders ports.OrderRepository,
) ([]*domain.OrderLocationData, error) {
	if maxStops <= 0 {
		maxStops = DefaultSuggestMaxStops
	}

	if _, err := vehicles.FindVehicleByID(ctx, businessID, vehicleID); err != nil {
		return nil, fmt.Errorf("suggest pickup route: load vehicle: %w", err)
	}

	pickups, err := EligibleOrders(ctx, businessID, []StopRole{RolePickup}, orders)
	if err != nil {
		return nil, fmt.Errorf("suggest pickup route: %w", err)
	}

	sequenced := NearestNeighborOrder(currentLocation, pickups)
	if len(sequenced) > maxStops {
		sequenced = sequenced[:maxStops]
	}

	return sequenced, nil
}
