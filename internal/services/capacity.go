package services

import "fleet-route-service/internal/domain"

// Fits reports whether adding the candidate to the current load stays within
// both the weight and item ceilings.
func Fits(candidate *domain.OrderLocationData, currentWeight float64, currentItems int, maxWeight float64, maxItems int) bool {
	return currentWeight+candidate.EstimatedWeight <= maxWeight &&
		currentItems+candidate.ItemCount <= maxItems
}

// FilterFeasible walks candidates in the given order and greedily accepts
// each one that still fits the running totals, stopping once
// maxAdditionalStops acceptances are reached.
//
// Candidates that fail the capacity check are dropped silently — they do not
// appear in any skipped list (only later per-order creation failures do).
// The greedy single pass is order-dependent and not globally optimal; the
// upstream priority/distance sort decides who gets capacity first.
func FilterFeasible(
	candidates []*domain.OrderLocationData,
	currentWeight float64,
	currentItems int,
	maxWeight float64,
	maxItems int,
	maxAdditionalStops int,
) []*domain.OrderLocationData {
	accepted := make([]*domain.OrderLocationData, 0, len(candidates))

	for _, c := range candidates {
		if len(accepted) >= maxAdditionalStops {
			break
		}
		if !Fits(c, currentWeight, currentItems, maxWeight, maxItems) {
			continue
		}

		accepted = append(accepted, c)
		currentWeight += c.EstimatedWeight
		currentItems += c.ItemCount
	}

	return accepted
}
