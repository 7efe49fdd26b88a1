package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/geo"
	"fleet-route-service/internal/ports"
)

// FallbackLocation anchors orders that cannot be placed on the map (Istanbul
// center). Treated as low-confidence by everything downstream.
var FallbackLocation = domain.Coordinates{Lat: 41.0082, Lon: 28.9784}

// Default planned working window for generated routes, local time on the
// target date.
const (
	defaultRouteStartHour = 9
	defaultRouteEndHour   = 17
)

// GenerateOptions tunes bulk route generation.
type GenerateOptions struct {
	PrioritizeUrgent bool
}

// GeneratedRoute summarizes one route produced by a generation pass.
type GeneratedRoute struct {
	RouteID     string
	RouteName   string
	VehicleID   string
	VehicleName string
	StopCount   int
	DistanceKm  float64
	DurationMin int
}

// GenerationResult reports the outcome of one generation pass. Success is
// false only for systemic failures (no available vehicles); per-cluster
// failures land in UnassignedOrders while the pass continues.
type GenerationResult struct {
	Success          bool
	GeneratedRoutes  []GeneratedRoute
	UnassignedOrders []string
	Message          string
}

// orderCluster groups orders sharing a ~1km grid cell. Center is taken from
// the first member, not recomputed as a centroid.
type orderCluster struct {
	Key         string
	Center      domain.Coordinates
	Orders      []*domain.OrderLocationData
	TotalWeight float64
	TotalItems  int
}

// GenerateOptimalRoutes builds one new PLANNED route per geographic cluster
// of eligible orders, pairing clusters with available vehicles one-to-one in
// discovery order. Once vehicles run out, remaining clusters' orders are
// reported as unassigned — one cluster per vehicle per call is the designed
// limit.
//
// The optional geocoder resolves coordinates for orders that carry only an
// address; orders that still have no coordinates fall into a single default
// cluster at FallbackLocation.
func GenerateOptimalRoutes(
	ctx context.Context,
	businessID string,
	targetDate time.Time,
	opts GenerateOptions,
	routes ports.RouteRepository,
	vehicles ports.VehicleRepository,
	orders ports.OrderRepository,
	geocoder ports.Geocoder,
) (*GenerationResult, error) {
	if businessID == "" {
		return nil, &domain.InvalidInputError{Message: "generate routes: businessID is required"}
	}

	available, err := vehicles.FindAvailableVehicles(ctx, businessID, targetDate)
	if err != nil {
		return nil, fmt.Errorf("generate routes: find available vehicles: %w", err)
	}
	if len(available) == 0 {
		return &GenerationResult{
			Success:          false,
			GeneratedRoutes:  []GeneratedRoute{},
			UnassignedOrders: []string{},
			Message:          fmt.Sprintf("No available vehicles for %s", targetDate.Format("2006-01-02")),
		}, nil
	}

	eligible, err := EligibleOrders(ctx, businessID, []StopRole{RolePickup, RoleDelivery}, orders)
	if err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}
	if len(eligible) == 0 {
		return &GenerationResult{
			Success:          true,
			GeneratedRoutes:  []GeneratedRoute{},
			UnassignedOrders: []string{},
			Message:          "No eligible orders to route",
		}, nil
	}

	resolveMissingCoordinates(ctx, eligible, geocoder)
	clusters := clusterByLocation(eligible)

	result := &GenerationResult{
		Success:          true,
		GeneratedRoutes:  []GeneratedRoute{},
		UnassignedOrders: []string{},
	}

	totalStops := 0
	for i, cluster := range clusters {
		if i >= len(available) {
			// Vehicles exhausted; no second cluster per vehicle in this pass.
			for _, o := range cluster.Orders {
				result.UnassignedOrders = append(result.UnassignedOrders, o.OrderNumber)
			}
			continue
		}

		vehicle := available[i]
		generated, err := buildClusterRoute(ctx, businessID, targetDate, cluster, vehicle, routes)
		if err != nil {
			log.Printf("generate routes: cluster=%s vehicle=%s failed: %v", cluster.Key, vehicle.ID, err)
			for _, o := range cluster.Orders {
				result.UnassignedOrders = append(result.UnassignedOrders, o.OrderNumber)
			}
			continue
		}

		result.GeneratedRoutes = append(result.GeneratedRoutes, *generated)
		totalStops += generated.StopCount
	}

	result.Message = fmt.Sprintf("Generated %d routes with %d stops", len(result.GeneratedRoutes), totalStops)
	if n := len(result.UnassignedOrders); n > 0 {
		result.Message += fmt.Sprintf(", %d orders left unassigned", n)
	}
	return result, nil
}

// resolveMissingCoordinates fills routing coordinates from the order's
// address via the geocoder. Failures leave the order coordless; it then
// lands in the default cluster instead of being dropped.
func resolveMissingCoordinates(ctx context.Context, orders []*domain.OrderLocationData, geocoder ports.Geocoder) {
	if geocoder == nil {
		return
	}

	for _, o := range orders {
		if o.RoutingCoords() != nil || o.RoutingAddress() == "" {
			continue
		}

		coords, err := geocoder.Geocode(ctx, o.RoutingAddress(), "")
		if err != nil {
			log.Printf("generate routes: geocode order=%s failed: %v", o.OrderNumber, err)
			continue
		}

		c := coords
		if o.IsPickup() {
			o.PickupCoords = &c
		} else {
			o.DeliveryCoords = &c
		}
	}
}

// clusterByLocation groups orders into ~1km grid cells by rounding their
// routing coordinates to two decimal places. A cheap substitute for real
// spatial clustering (k-means/DBSCAN); fine at current fleet scale but a
// known limit if order volume grows. Orders without coordinates share one
// default cluster at FallbackLocation. Discovery order is preserved.
func clusterByLocation(orders []*domain.OrderLocationData) []*orderCluster {
	byKey := make(map[string]*orderCluster)
	ordered := make([]*orderCluster, 0)

	for _, o := range orders {
		key := "default"
		center := FallbackLocation
		if c := o.RoutingCoords(); c != nil {
			key = fmt.Sprintf("%.2f,%.2f", c.Lat, c.Lon)
			center = *c
		}

		cluster, ok := byKey[key]
		if !ok {
			cluster = &orderCluster{Key: key, Center: center}
			byKey[key] = cluster
			ordered = append(ordered, cluster)
		}

		cluster.Orders = append(cluster.Orders, o)
		cluster.TotalWeight += o.EstimatedWeight
		cluster.TotalItems += o.ItemCount
	}

	return ordered
}

// buildClusterRoute creates one PLANNED mixed route for a cluster/vehicle
// pair: sequences the cluster's orders from its center, creates one stop and
// link per order with cumulative planned arrivals, and persists distance and
// duration metrics.
func buildClusterRoute(
	ctx context.Context,
	businessID string,
	targetDate time.Time,
	cluster *orderCluster,
	vehicle *domain.Vehicle,
	routes ports.RouteRepository,
) (*GeneratedRoute, error) {
	day := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	start := day.Add(defaultRouteStartHour * time.Hour)
	end := day.Add(defaultRouteEndHour * time.Hour)

	route := &domain.Route{
		BusinessID:           businessID,
		Name:                 fmt.Sprintf("Route %s - %s", day.Format("2006-01-02"), vehicle.Name),
		Type:                 domain.RouteTypeMixed,
		Status:               domain.RouteStatusPlanned,
		VehicleID:            vehicle.ID,
		PlannedDate:          day,
		PlannedStart:         &start,
		PlannedEnd:           &end,
		OptimizationStrategy: "nearest_neighbor",
	}
	if err := routes.CreateRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	sequenced := SequencePickupsBeforeDeliveries(cluster.Orders, cluster.Center)

	waypoints := make([]domain.Coordinates, 0, len(sequenced)+1)
	waypoints = append(waypoints, cluster.Center)

	arrival := start
	previous := cluster.Center
	stopCount := 0

	for i, order := range sequenced {
		if c := order.RoutingCoords(); c != nil {
			leg := geo.Distance(previous, *c)
			arrival = arrival.Add(time.Duration(geo.EstimateTravelMinutes(leg, geo.DefaultAvgSpeedKmh)) * time.Minute)
			previous = *c
			waypoints = append(waypoints, *c)
		}

		plannedArrival := arrival
		stop := &domain.RouteStop{
			RouteID:        route.ID,
			Sequence:       i + 1,
			Type:           order.StopType(),
			Status:         domain.StopStatusPending,
			Address:        order.RoutingAddress(),
			Coords:         order.RoutingCoords(),
			CustomerID:     order.CustomerID,
			CustomerName:   order.CustomerName,
			CustomerPhone:  order.CustomerPhone,
			PlannedArrival: &plannedArrival,
			ItemCount:      order.ItemCount,
			Weight:         order.EstimatedWeight,
		}
		if err := routes.CreateStop(ctx, stop); err != nil {
			return nil, fmt.Errorf("create stop seq=%d: %w", i+1, err)
		}

		link := &domain.RouteStopOrder{
			StopID:   stop.ID,
			OrderID:  order.OrderID,
			Action:   order.StopType(),
			Sequence: 1,
		}
		if err := routes.CreateStopOrder(ctx, link); err != nil {
			return nil, fmt.Errorf("create stop order link seq=%d: %w", i+1, err)
		}

		stopCount++
	}

	distanceKm := geo.RouteDistance(waypoints)
	durationMin := geo.EstimateTravelMinutes(distanceKm, geo.DefaultAvgSpeedKmh)

	if err := routes.UpdateRouteMetrics(ctx, route.ID, distanceKm, durationMin); err != nil {
		return nil, fmt.Errorf("update route metrics: %w", err)
	}
	if err := routes.UpdateRouteTotals(ctx, route.ID, cluster.TotalWeight, cluster.TotalItems); err != nil {
		return nil, fmt.Errorf("update route totals: %w", err)
	}

	return &GeneratedRoute{
		RouteID:     route.ID,
		RouteName:   route.Name,
		VehicleID:   vehicle.ID,
		VehicleName: vehicle.Name,
		StopCount:   stopCount,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
	}, nil
}
