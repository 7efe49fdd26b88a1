// Package geo contains pure geographic computation helpers used by the route
// planning services. Distances are straight-line (Haversine) approximations;
// no road network is consulted.
package geo

import (
	"math"
	"slices"

	"fleet-route-service/internal/domain"
)

const earthRadiusKm = 6371.0

// DefaultAvgSpeedKmh is the assumed urban travel speed for duration estimates.
const DefaultAvgSpeedKmh = 30.0

// Distance returns the great-circle distance in kilometres between two points.
func Distance(a, b domain.Coordinates) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// EstimateTravelMinutes converts a distance to an estimated travel time at
// the given average speed, rounded to the nearest minute.
func EstimateTravelMinutes(distanceKm, avgSpeedKmh float64) int {
	if avgSpeedKmh <= 0 {
		avgSpeedKmh = DefaultAvgSpeedKmh
	}
	return int(math.Round(distanceKm / avgSpeedKmh * 60))
}

// IsWithinRadius reports whether point lies within radiusKm of center.
func IsWithinRadius(center, point domain.Coordinates, radiusKm float64) bool {
	return Distance(center, point) <= radiusKm
}

// BoundingBox describes the min/max extents of a point set and its
// arithmetic-mean center.
type BoundingBox struct {
	North  float64
	South  float64
	East   float64
	West   float64
	Center domain.Coordinates
}

// Bounds computes the bounding box of a non-empty point set.
func Bounds(points []domain.Coordinates) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, &domain.InvalidInputError{Message: "bounding box: points must not be empty"}
	}

	box := BoundingBox{
		North: points[0].Lat,
		South: points[0].Lat,
		East:  points[0].Lon,
		West:  points[0].Lon,
	}
	for _, p := range points[1:] {
		box.North = math.Max(box.North, p.Lat)
		box.South = math.Min(box.South, p.Lat)
		box.East = math.Max(box.East, p.Lon)
		box.West = math.Min(box.West, p.Lon)
	}

	center, err := CenterPoint(points)
	if err != nil {
		return BoundingBox{}, err
	}
	box.Center = center

	return box, nil
}

// CenterPoint returns the arithmetic mean of all latitudes and longitudes.
// Rejects empty input rather than producing NaN coordinates.
func CenterPoint(points []domain.Coordinates) (domain.Coordinates, error) {
	if len(points) == 0 {
		return domain.Coordinates{}, &domain.InvalidInputError{Message: "center point: points must not be empty"}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	n := float64(len(points))
	return domain.Coordinates{Lat: sumLat / n, Lon: sumLon / n}, nil
}

// RouteDistance sums consecutive pairwise distances over the waypoints.
// Returns 0 for fewer than two waypoints.
func RouteDistance(waypoints []domain.Coordinates) float64 {
	total := 0.0
	for i := 1; i < len(waypoints); i++ {
		total += Distance(waypoints[i-1], waypoints[i])
	}
	return total
}

// SortByDistance returns the items that have coordinates, ordered ascending
// by distance to the reference point. Items lacking coordinates are dropped.
// The sort is stable: equal distances preserve relative input order.
func SortByDistance[T any](reference domain.Coordinates, items []T, coords func(T) *domain.Coordinates) []T {
	type measured struct {
		item T
		dist float64
	}

	withCoords := make([]measured, 0, len(items))
	for _, it := range items {
		c := coords(it)
		if c == nil {
			continue
		}
		withCoords = append(withCoords, measured{item: it, dist: Distance(reference, *c)})
	}

	slices.SortStableFunc(withCoords, func(a, b measured) int {
		if a.dist < b.dist {
			return -1
		}
		if a.dist > b.dist {
			return 1
		}
		return 0
	})

	out := make([]T, 0, len(withCoords))
	for _, m := range withCoords {
		out = append(out, m.item)
	}
	return out
}

// NearestTo scans items linearly and returns the one nearest to the
// reference, its distance and its index in the input slice. Items without
// coordinates are skipped; on ties the first-encountered minimum wins.
// ok is false when no item has coordinates.
func NearestTo[T any](reference domain.Coordinates, items []T, coords func(T) *domain.Coordinates) (item T, distKm float64, index int, ok bool) {
	best := -1
	bestDist := math.MaxFloat64

	for i, it := range items {
		c := coords(it)
		if c == nil {
			continue
		}
		d := Distance(reference, *c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 {
		var zero T
		return zero, 0, -1, false
	}
	return items[best], bestDist, best, true
}
