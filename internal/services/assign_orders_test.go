package services

import (
	"context"
	"errors"
	"testing"

	"fleet-route-service/internal/domain"
)

const testBusiness = "biz-1"

func plannedRouteFixture(repo *fakeRouteRepo, vehicles *fakeVehicleRepo) *domain.Route {
	vehicles.vehicles = append(vehicles.vehicles, &domain.Vehicle{
		ID:          "veh-1",
		BusinessID:  testBusiness,
		Name:        "Van 1",
		Status:      domain.VehicleStatusAvailable,
		IsActive:    true,
		MaxWeightKg: 100,
		MaxItems:    50,
	})

	return repo.addRoute(&domain.Route{
		ID:         "route-planned",
		BusinessID: testBusiness,
		Name:       "Morning Route",
		Status:     domain.RouteStatusPlanned,
		VehicleID:  "veh-1",
	})
}

func TestAssignOrdersToRouteNotFound(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	orders := &fakeOrderRepo{}

	_, err := AssignOrdersToRoute(context.Background(), "missing", testBusiness, AssignOptions{}, routes, vehicles, orders)

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAssignOrdersToRouteInvalidState(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)
	route.Status = domain.RouteStatusInProgress

	_, err := AssignOrdersToRoute(context.Background(), route.ID, testBusiness, AssignOptions{}, routes, vehicles, &fakeOrderRepo{})

	var is *domain.InvalidStateError
	if !errors.As(err, &is) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if is.Code != domain.CodeRouteNotModifiable {
		t.Errorf("code = %q, want %q", is.Code, domain.CodeRouteNotModifiable)
	}
	if is.Status != string(domain.RouteStatusInProgress) {
		t.Errorf("status = %q, want IN_PROGRESS", is.Status)
	}
}

func TestAssignOrdersToRouteNoEligibleOrders(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)

	res, err := AssignOrdersToRoute(context.Background(), route.ID, testBusiness, AssignOptions{}, routes, vehicles, &fakeOrderRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Success || res.AssignedStops != 0 {
		t.Errorf("expected trivial success with zero assignments, got %+v", res)
	}
}

func TestAssignOrdersCapacityScenario(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)

	// 20 items each -> estimated weight 40 each; the vehicle holds 100kg,
	// so the third order is filtered out by capacity. Capacity rejections
	// are silent: the third order is neither assigned nor in SkippedOrders.
	orders := &fakeOrderRepo{orders: []*domain.OrderLocationData{
		deliveryOrder("ORD-1", 41.01, 28.98, 20),
		deliveryOrder("ORD-2", 41.02, 28.99, 20),
		deliveryOrder("ORD-3", 41.03, 29.00, 20),
	}}

	res, err := AssignOrdersToRoute(context.Background(), route.ID, testBusiness, AssignOptions{}, routes, vehicles, orders)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.AssignedStops != 2 {
		t.Fatalf("expected 2 assigned stops, got %d", res.AssignedStops)
	}
	if len(res.SkippedOrders) != 0 {
		t.Errorf("capacity-filtered orders must not appear in SkippedOrders, got %v", res.SkippedOrders)
	}

	reloaded, err := routes.FindRouteByID(context.Background(), testBusiness, route.ID)
	if err != nil {
		t.Fatalf("reload route: %v", err)
	}
	if len(reloaded.Stops) != 2 {
		t.Fatalf("expected 2 stops persisted, got %d", len(reloaded.Stops))
	}
	if reloaded.Stops[0].Sequence != 1 || reloaded.Stops[1].Sequence != 2 {
		t.Errorf("stop sequences must be 1,2; got %d,%d", reloaded.Stops[0].Sequence, reloaded.Stops[1].Sequence)
	}

	wantWeight, wantItems := reloaded.CurrentLoad()
	if reloaded.TotalWeight != wantWeight || reloaded.TotalItems != wantItems {
		t.Errorf("route totals (%f, %d) must equal stop sums (%f, %d)",
			reloaded.TotalWeight, reloaded.TotalItems, wantWeight, wantItems)
	}
	if reloaded.TotalWeight != 80 || reloaded.TotalItems != 40 {
		t.Errorf("totals = (%f, %d), want (80, 40)", reloaded.TotalWeight, reloaded.TotalItems)
	}
}

func TestAssignOrdersSkipsOnCreationFailure(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)

	orders := &fakeOrderRepo{orders: []*domain.OrderLocationData{
		deliveryOrder("ORD-1", 41.01, 28.98, 2),
		deliveryOrder("ORD-2", 41.02, 28.99, 2),
	}}
	routes.failLinkForOrder["id-ORD-2"] = true

	res, err := AssignOrdersToRoute(context.Background(), route.ID, testBusiness, AssignOptions{}, routes, vehicles, orders)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Success {
		t.Error("partial failure must still report success")
	}
	if res.AssignedStops != 1 {
		t.Errorf("expected 1 assigned stop, got %d", res.AssignedStops)
	}
	if len(res.SkippedOrders) != 1 || res.SkippedOrders[0] != "ORD-2" {
		t.Errorf("expected ORD-2 in SkippedOrders, got %v", res.SkippedOrders)
	}

	// The orphan stop from the failed link must not survive.
	reloaded, _ := routes.FindRouteByID(context.Background(), testBusiness, route.ID)
	if len(reloaded.Stops) != 1 {
		t.Errorf("expected 1 stop after cleanup, got %d", len(reloaded.Stops))
	}
	wantWeight, wantItems := reloaded.CurrentLoad()
	if reloaded.TotalWeight != wantWeight || reloaded.TotalItems != wantItems {
		t.Errorf("route totals must match stop sums after partial failure")
	}
}

func TestAssignOrdersRespectsMaxStops(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)

	orders := &fakeOrderRepo{orders: []*domain.OrderLocationData{
		deliveryOrder("ORD-1", 41.01, 28.98, 1),
		deliveryOrder("ORD-2", 41.02, 28.99, 1),
		deliveryOrder("ORD-3", 41.03, 29.00, 1),
	}}

	res, err := AssignOrdersToRoute(context.Background(), route.ID, testBusiness, AssignOptions{MaxStops: 2}, routes, vehicles, orders)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AssignedStops != 2 {
		t.Errorf("expected MaxStops to cap assignments at 2, got %d", res.AssignedStops)
	}
}

func TestRemoveOrderFromRoute(t *testing.T) {
	ctx := context.Background()
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)

	orders := &fakeOrderRepo{orders: []*domain.OrderLocationData{
		deliveryOrder("ORD-1", 41.01, 28.98, 2),
		deliveryOrder("ORD-2", 41.02, 28.99, 3),
	}}
	if _, err := AssignOrdersToRoute(ctx, route.ID, testBusiness, AssignOptions{}, routes, vehicles, orders); err != nil {
		t.Fatalf("setup assignment failed: %v", err)
	}

	res, err := RemoveOrderFromRoute(ctx, route.ID, "id-ORD-1", testBusiness, routes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	reloaded, _ := routes.FindRouteByID(ctx, testBusiness, route.ID)
	if len(reloaded.Stops) != 1 {
		t.Fatalf("expected stop cascade deletion, got %d stops", len(reloaded.Stops))
	}
	wantWeight, wantItems := reloaded.CurrentLoad()
	if reloaded.TotalWeight != wantWeight || reloaded.TotalItems != wantItems {
		t.Errorf("route totals (%f, %d) must equal stop sums (%f, %d)",
			reloaded.TotalWeight, reloaded.TotalItems, wantWeight, wantItems)
	}

	// Second removal of the same order is an idempotent no-op.
	again, err := RemoveOrderFromRoute(ctx, route.ID, "id-ORD-1", testBusiness, routes)
	if err != nil {
		t.Fatalf("second removal errored: %v", err)
	}
	if !again.Success || again.Message != "Order is not linked to this route" {
		t.Errorf("expected not-linked no-op, got %+v", again)
	}

	afterAgain, _ := routes.FindRouteByID(ctx, testBusiness, route.ID)
	if afterAgain.TotalWeight != reloaded.TotalWeight || afterAgain.TotalItems != reloaded.TotalItems {
		t.Error("idempotent removal must not mutate totals further")
	}
}

func TestRemoveOrderFromCompletedRoute(t *testing.T) {
	routes := newFakeRouteRepo()
	vehicles := &fakeVehicleRepo{}
	route := plannedRouteFixture(routes, vehicles)
	route.Status = domain.RouteStatusCompleted

	_, err := RemoveOrderFromRoute(context.Background(), route.ID, "id-ORD-1", testBusiness, routes)

	var is *domain.InvalidStateError
	if !errors.As(err, &is) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if is.Code != domain.CodeRouteNotModifiable {
		t.Errorf("code = %q, want %q", is.Code, domain.CodeRouteNotModifiable)
	}
}
