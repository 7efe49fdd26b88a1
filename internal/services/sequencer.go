package services

import (
	"math"
	"slices"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/geo"
)

// NearestNeighborOrder sequences destinations using a greedy nearest-neighbor
// heuristic: from the current position, always travel next to the closest
// unvisited destination. O(n²) by design — per-route stop counts stay in the
// tens, so determinism and simplicity win over optimality here (no VRP/TSP
// solving).
//
// The output is a permutation of the input: orders lacking routing
// coordinates cannot be measured and are appended at the end in input order.
func NearestNeighborOrder(start domain.Coordinates, destinations []*domain.OrderLocationData) []*domain.OrderLocationData {
	if len(destinations) <= 1 {
		return slices.Clone(destinations)
	}

	remaining := make([]*domain.OrderLocationData, 0, len(destinations))
	coordless := make([]*domain.OrderLocationData, 0)
	for _, d := range destinations {
		if d.RoutingCoords() == nil {
			coordless = append(coordless, d)
			continue
		}
		remaining = append(remaining, d)
	}

	ordered := make([]*domain.OrderLocationData, 0, len(destinations))
	current := start

	for len(remaining) > 0 {
		// Ties resolve to the first-encountered minimum.
		next, _, idx, ok := geo.NearestTo(current, remaining, func(o *domain.OrderLocationData) *domain.Coordinates {
			return o.RoutingCoords()
		})
		if !ok {
			break
		}

		ordered = append(ordered, next)
		current = *next.RoutingCoords()
		remaining = slices.Delete(remaining, idx, idx+1)
	}

	return append(ordered, coordless...)
}

// PrioritizedOrder sorts destinations by priority weight descending, then by
// distance to the reference point ascending. Destinations without routing
// coordinates sort last within their priority band (large distance penalty)
// rather than being excluded.
func PrioritizedOrder(destinations []*domain.OrderLocationData, reference domain.Coordinates) []*domain.OrderLocationData {
	out := slices.Clone(destinations)

	distanceTo := func(o *domain.OrderLocationData) float64 {
		c := o.RoutingCoords()
		if c == nil {
			return math.MaxFloat64
		}
		return geo.Distance(reference, *c)
	}

	slices.SortStableFunc(out, func(a, b *domain.OrderLocationData) int {
		wa, wb := a.Priority.Weight(), b.Priority.Weight()
		if wa != wb {
			return wb - wa
		}

		da, db := distanceTo(a), distanceTo(b)
		if da < db {
			return -1
		}
		if da > db {
			return 1
		}
		return 0
	})

	return out
}

// SequencePickupsBeforeDeliveries partitions orders by stop role, prioritizes
// each partition around the start point, and concatenates pickups then
// deliveries. Ordering is only optimized within each group — scheduling all
// pickups ahead of all deliveries is a deliberate simplification.
func SequencePickupsBeforeDeliveries(orders []*domain.OrderLocationData, start domain.Coordinates) []*domain.OrderLocationData {
	pickups := make([]*domain.OrderLocationData, 0, len(orders))
	deliveries := make([]*domain.OrderLocationData, 0, len(orders))
	for _, o := range orders {
		if o.IsPickup() {
			pickups = append(pickups, o)
		} else {
			deliveries = append(deliveries, o)
		}
	}

	sequenced := PrioritizedOrder(pickups, start)
	return append(sequenced, PrioritizedOrder(deliveries, start)...)
}
