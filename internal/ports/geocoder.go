package ports

import (
	"context"

	"fleet-route-service/internal/domain"
)

// Contract for resolving free-text addresses to approximate coordinates.
// Implementations range from a static city-center table to an external
// geocoding provider; callers must not depend on which one is wired.
type Geocoder interface {
	// Geocode resolves an address (plus optional city) to coordinates.
	// A low-confidence fallback location is a valid result, not an error.
	Geocode(ctx context.Context, address, city string) (domain.Coordinates, error)

	// ReverseGeocode returns a human-readable description of a coordinate.
	ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error)
}
