package ports

import (
	"context"
	"time"

	"fleet-route-service/internal/domain"
)

// Port: a boundary for retrieving Vehicle entities.
type VehicleRepository interface {
	// FindAvailableVehicles returns active AVAILABLE vehicles of the business
	// that are not already committed to an active route on the given date.
	FindAvailableVehicles(ctx context.Context, businessID string, date time.Time) ([]*domain.Vehicle, error)

	FindVehicleByID(ctx context.Context, businessID, vehicleID string) (*domain.Vehicle, error)
}
