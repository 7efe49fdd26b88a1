package services

import (
	"context"
	"errors"
	"testing"

	"fleet-route-service/internal/domain"
)

func TestSuggestPickupRoute(t *testing.T) {
	vehicles := &fakeVehicleRepo{vehicles: []*domain.Vehicle{availableVehicle("veh-1", "Van 1")}}
	orders := &fakeOrderRepo{orders: []*domain.OrderLocationData{
		pickupOrder("far", 41.05, 29.10, 1),
		pickupOrder("near", 41.0090, 28.9790, 1),
		deliveryOrder("delivery", 41.0085, 28.9786, 1),
	}}

	current := domain.Coordinates{Lat: 41.0082, Lon: 28.9784}
	suggested, err := SuggestPickupRoute(context.Background(), testBusiness, "veh-1", current, 0, vehicles, orders)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggested) != 2 {
		t.Fatalf("expected 2 pickup suggestions, got %d", len(suggested))
	}
	if suggested[0].OrderNumber != "near" || suggested[1].OrderNumber != "far" {
		t.Errorf("expected nearest-neighbor order near,far; got %q,%q",
			suggested[0].OrderNumber, suggested[1].OrderNumber)
	}
}

func TestSuggestPickupRouteTruncatesToMaxStops(t *testing.T) {
	vehicles := &fakeVehicleRepo{vehicles: []*domain.Vehicle{availableVehicle("veh-1", "Van 1")}}
	orders := &fakeOrderRepo{orders: []*domain.OrderLocationData{
		pickupOrder("p1", 41.01, 28.98, 1),
		pickupOrder("p2", 41.02, 28.99, 1),
		pickupOrder("p3", 41.03, 29.00, 1),
	}}

	suggested, err := SuggestPickupRoute(context.Background(), testBusiness, "veh-1",
		domain.Coordinates{Lat: 41.0, Lon: 28.97}, 2, vehicles, orders)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggested) != 2 {
		t.Errorf("expected truncation to 2 stops, got %d", len(suggested))
	}
}

func TestSuggestPickupRouteUnknownVehicle(t *testing.T) {
	_, err := SuggestPickupRoute(context.Background(), testBusiness, "ghost",
		domain.Coordinates{}, 10, &fakeVehicleRepo{}, &fakeOrderRepo{})

	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
