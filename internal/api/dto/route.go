package dto

type AssignRequest struct {
	MaxStops         int     `json:"max_stops"`
	MaxDistanceKm    float64 `json:"max_distance_km"`
	MaxDurationMin   int     `json:"max_duration_min"`
	PrioritizeUrgent bool    `json:"prioritize_urgent"`

	VehicleCapacityWeight float64 `json:"vehicle_capacity_weight"`
	VehicleCapacityItems  int     `json:"vehicle_capacity_items"`
}

type AssignResponse struct {
	Success       bool     `json:"success"`
	RouteID       string   `json:"route_id"`
	RouteName     string   `json:"route_name"`
	AssignedStops int      `json:"assigned_stops"`
	SkippedOrders []string `json:"skipped_orders"`
	Message       string   `json:"message"`
}

type GenerateRequest struct {
	TargetDate       string `json:"target_date"`
	PrioritizeUrgent bool   `json:"prioritize_urgent"`
}

type GeneratedRouteResponse struct {
	RouteID     string  `json:"route_id"`
	RouteName   string  `json:"route_name"`
	VehicleID   string  `json:"vehicle_id"`
	VehicleName string  `json:"vehicle_name"`
	StopCount   int     `json:"stop_count"`
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

type GenerateResponse struct {
	Success          bool                     `json:"success"`
	GeneratedRoutes  []GeneratedRouteResponse `json:"generated_routes"`
	UnassignedOrders []string                 `json:"unassigned_orders"`
	Message          string                   `json:"message"`
}

type RemoveOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
