package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"fleet-route-service/internal/domain"
)

// In-memory collaborators for service tests. Failure injection is per-entity
// so partial-failure paths can be exercised.

type fakeOrderRepo struct {
	orders []*domain.OrderLocationData
	err    error
}

func (f *fakeOrderRepo) FindEligibleOrders(ctx context.Context, businessID string, statuses []domain.OrderStatus, excludeActiveRouteLinked bool) ([]*domain.OrderLocationData, error) {
	if f.err != nil {
		return nil, f.err
	}

	out := make([]*domain.OrderLocationData, 0, len(f.orders))
	for _, o := range f.orders {
		if slices.Contains(statuses, o.Status) {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindOrderByID(ctx context.Context, businessID, orderID string) (*domain.OrderLocationData, error) {
	for _, o := range f.orders {
		if o.OrderID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "order", ID: orderID}
}

type fakeVehicleRepo struct {
	vehicles []*domain.Vehicle
}

func (f *fakeVehicleRepo) FindAvailableVehicles(ctx context.Context, businessID string, date time.Time) ([]*domain.Vehicle, error) {
	out := make([]*domain.Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		if v.BusinessID == businessID && v.IsActive && v.Status == domain.VehicleStatusAvailable {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVehicleRepo) FindVehicleByID(ctx context.Context, businessID, vehicleID string) (*domain.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.ID == vehicleID && v.BusinessID == businessID {
			return v, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "vehicle", ID: vehicleID}
}

type fakeRouteRepo struct {
	routes map[string]*domain.Route
	stops  map[string]*domain.RouteStop
	links  map[string]*domain.RouteStopOrder
	nextID int

	// failLinkForOrder makes CreateStopOrder fail for the given order IDs.
	failLinkForOrder map[string]bool
	// failCreateRouteForVehicle makes CreateRoute fail for the given vehicle IDs.
	failCreateRouteForVehicle map[string]bool
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{
		routes:                    map[string]*domain.Route{},
		stops:                     map[string]*domain.RouteStop{},
		links:                     map[string]*domain.RouteStopOrder{},
		failLinkForOrder:          map[string]bool{},
		failCreateRouteForVehicle: map[string]bool{},
	}
}

func (f *fakeRouteRepo) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeRouteRepo) addRoute(route *domain.Route) *domain.Route {
	if route.ID == "" {
		route.ID = f.id("route")
	}
	f.routes[route.ID] = route
	return route
}

func (f *fakeRouteRepo) FindRouteByID(ctx context.Context, businessID, routeID string) (*domain.Route, error) {
	r, ok := f.routes[routeID]
	if !ok || r.BusinessID != businessID {
		return nil, &domain.NotFoundError{Resource: "route", ID: routeID}
	}

	cp := *r
	cp.Stops = nil
	for _, s := range f.stops {
		if s.RouteID == routeID {
			cp.Stops = append(cp.Stops, s)
		}
	}
	slices.SortFunc(cp.Stops, func(a, b *domain.RouteStop) int { return a.Sequence - b.Sequence })
	return &cp, nil
}

func (f *fakeRouteRepo) CreateRoute(ctx context.Context, route *domain.Route) error {
	if f.failCreateRouteForVehicle[route.VehicleID] {
		return fmt.Errorf("injected route failure for vehicle %s", route.VehicleID)
	}
	route.ID = f.id("route")
	f.routes[route.ID] = route
	return nil
}

func (f *fakeRouteRepo) CreateStop(ctx context.Context, stop *domain.RouteStop) error {
	stop.ID = f.id("stop")
	f.stops[stop.ID] = stop
	return nil
}

func (f *fakeRouteRepo) DeleteStop(ctx context.Context, stopID string) error {
	delete(f.stops, stopID)
	return nil
}

func (f *fakeRouteRepo) CreateStopOrder(ctx context.Context, link *domain.RouteStopOrder) error {
	if f.failLinkForOrder[link.OrderID] {
		return fmt.Errorf("injected link failure for order %s", link.OrderID)
	}
	link.ID = f.id("link")
	f.links[link.ID] = link
	return nil
}

func (f *fakeRouteRepo) FindStopOrder(ctx context.Context, routeID, orderID string) (*domain.RouteStopOrder, error) {
	for _, l := range f.links {
		stop, ok := f.stops[l.StopID]
		if ok && stop.RouteID == routeID && l.OrderID == orderID {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeRouteRepo) DeleteStopOrder(ctx context.Context, linkID string) error {
	delete(f.links, linkID)
	return nil
}

func (f *fakeRouteRepo) CountStopOrders(ctx context.Context, stopID string) (int, error) {
	n := 0
	for _, l := range f.links {
		if l.StopID == stopID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRouteRepo) UpdateRouteTotals(ctx context.Context, routeID string, totalWeight float64, totalItems int) error {
	r, ok := f.routes[routeID]
	if !ok {
		return &domain.NotFoundError{Resource: "route", ID: routeID}
	}
	r.TotalWeight = totalWeight
	r.TotalItems = totalItems
	return nil
}

func (f *fakeRouteRepo) UpdateRouteMetrics(ctx context.Context, routeID string, distanceKm float64, durationMin int) error {
	r, ok := f.routes[routeID]
	if !ok {
		return &domain.NotFoundError{Resource: "route", ID: routeID}
	}
	r.TotalDistanceKm = distanceKm
	r.EstimatedDurationMin = durationMin
	return nil
}

// Order builders shared across service tests.

func deliveryOrder(num string, lat, lon float64, items int) *domain.OrderLocationData {
	return &domain.OrderLocationData{
		OrderID:         "id-" + num,
		OrderNumber:     num,
		Status:          domain.OrderStatusReadyForDelivery,
		Priority:        domain.PriorityNormal,
		DeliveryAddress: "addr " + num,
		DeliveryCoords:  &domain.Coordinates{Lat: lat, Lon: lon},
		ItemCount:       items,
	}
}

func pickupOrder(num string, lat, lon float64, items int) *domain.OrderLocationData {
	return &domain.OrderLocationData{
		OrderID:       "id-" + num,
		OrderNumber:   num,
		Status:        domain.OrderStatusPending,
		Priority:      domain.PriorityNormal,
		PickupAddress: "addr " + num,
		PickupCoords:  &domain.Coordinates{Lat: lat, Lon: lon},
		ItemCount:     items,
	}
}
