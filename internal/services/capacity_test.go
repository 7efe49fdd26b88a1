package services

import (
	"testing"

	"fleet-route-service/internal/domain"
)

func weightedOrder(num string, weight float64, items int) *domain.OrderLocationData {
	return &domain.OrderLocationData{
		OrderNumber:     num,
		EstimatedWeight: weight,
		ItemCount:       items,
	}
}

func TestFits(t *testing.T) {
	tests := []struct {
		name      string
		candidate *domain.OrderLocationData
		curWeight float64
		curItems  int
		maxWeight float64
		maxItems  int
		want      bool
	}{
		{"fits with room", weightedOrder("a", 10, 2), 50, 10, 100, 50, true},
		{"exact weight boundary", weightedOrder("b", 50, 2), 50, 10, 100, 50, true},
		{"weight exceeded", weightedOrder("c", 51, 2), 50, 10, 100, 50, false},
		{"exact item boundary", weightedOrder("d", 1, 40), 50, 10, 100, 50, true},
		{"items exceeded", weightedOrder("e", 1, 41), 50, 10, 100, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fits(tt.candidate, tt.curWeight, tt.curItems, tt.maxWeight, tt.maxItems)
			if got != tt.want {
				t.Errorf("Fits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterFeasibleCumulative(t *testing.T) {
	candidates := []*domain.OrderLocationData{
		weightedOrder("a", 40, 5),
		weightedOrder("b", 40, 5),
		weightedOrder("c", 40, 5),
	}

	accepted := FilterFeasible(candidates, 0, 0, 100, 50, 20)

	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(accepted))
	}
	if accepted[0].OrderNumber != "a" || accepted[1].OrderNumber != "b" {
		t.Errorf("unexpected acceptance order: %q, %q", accepted[0].OrderNumber, accepted[1].OrderNumber)
	}
}

func TestFilterFeasibleSkipsThenAccepts(t *testing.T) {
	// A later, lighter candidate is accepted after a heavy one is rejected.
	candidates := []*domain.OrderLocationData{
		weightedOrder("heavy", 90, 5),
		weightedOrder("huge", 50, 5),
		weightedOrder("light", 10, 5),
	}

	accepted := FilterFeasible(candidates, 0, 0, 100, 50, 20)

	if len(accepted) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(accepted))
	}
	if accepted[0].OrderNumber != "heavy" || accepted[1].OrderNumber != "light" {
		t.Errorf("unexpected acceptance: %q, %q", accepted[0].OrderNumber, accepted[1].OrderNumber)
	}
}

func TestFilterFeasibleStopLimit(t *testing.T) {
	candidates := []*domain.OrderLocationData{
		weightedOrder("a", 1, 1),
		weightedOrder("b", 1, 1),
		weightedOrder("c", 1, 1),
	}

	accepted := FilterFeasible(candidates, 0, 0, 100, 50, 2)
	if len(accepted) != 2 {
		t.Errorf("expected maxAdditionalStops to cap acceptances at 2, got %d", len(accepted))
	}

	accepted = FilterFeasible(candidates, 0, 0, 100, 50, 0)
	if len(accepted) != 0 {
		t.Errorf("expected no acceptances with zero stop budget, got %d", len(accepted))
	}
}

func TestFilterFeasibleNeverExceedsCeilings(t *testing.T) {
	candidates := []*domain.OrderLocationData{
		weightedOrder("a", 30, 12),
		weightedOrder("b", 25, 9),
		weightedOrder("c", 45, 30),
		weightedOrder("d", 10, 4),
		weightedOrder("e", 5, 40),
	}

	curWeight, curItems := 20.0, 8
	maxWeight, maxItems := 100.0, 50

	accepted := FilterFeasible(candidates, curWeight, curItems, maxWeight, maxItems, 20)

	weight, items := curWeight, curItems
	for _, a := range accepted {
		weight += a.EstimatedWeight
		items += a.ItemCount
	}
	if weight > maxWeight {
		t.Errorf("cumulative weight %f exceeds ceiling %f", weight, maxWeight)
	}
	if items > maxItems {
		t.Errorf("cumulative items %d exceeds ceiling %d", items, maxItems)
	}
}
