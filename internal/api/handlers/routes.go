package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
)

// RouteHandler exposes route assignment, bulk generation and order removal.
type RouteHandler struct {
	Routes   ports.RouteRepository
	Vehicles ports.VehicleRepository
	Orders   ports.OrderRepository
	Geocoder ports.Geocoder

	// DefaultBusiness scopes requests that carry no X-Business-ID header.
	DefaultBusiness string
}

func (h *RouteHandler) businessID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Business-ID")); v != "" {
		return v
	}
	return h.DefaultBusiness
}

// Assign pulls eligible orders into an existing planned route.
func (h *RouteHandler) Assign(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")

	var req dto.AssignRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	opts := services.AssignOptions{
		MaxStops:              req.MaxStops,
		MaxDistanceKm:         req.MaxDistanceKm,
		MaxDurationMin:        req.MaxDurationMin,
		PrioritizeUrgent:      req.PrioritizeUrgent,
		VehicleCapacityWeight: req.VehicleCapacityWeight,
		VehicleCapacityItems:  req.VehicleCapacityItems,
	}

	result, err := services.AssignOrdersToRoute(r.Context(), routeID, h.businessID(r), opts, h.Routes, h.Vehicles, h.Orders)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AssignResponse{
		Success:       result.Success,
		RouteID:       result.RouteID,
		RouteName:     result.RouteName,
		AssignedStops: result.AssignedStops,
		SkippedOrders: result.SkippedOrders,
		Message:       result.Message,
	})
}

// Generate builds new planned routes for a target date from scratch.
func (h *RouteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	targetDate := time.Now()
	if strings.TrimSpace(req.TargetDate) != "" {
		parsed, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
			return
		}
		targetDate = parsed
	}

	opts := services.GenerateOptions{PrioritizeUrgent: req.PrioritizeUrgent}

	result, err := services.GenerateOptimalRoutes(r.Context(), h.businessID(r), targetDate, opts, h.Routes, h.Vehicles, h.Orders, h.Geocoder)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.GenerateResponse{
		Success:          result.Success,
		GeneratedRoutes:  make([]dto.GeneratedRouteResponse, 0, len(result.GeneratedRoutes)),
		UnassignedOrders: result.UnassignedOrders,
		Message:          result.Message,
	}
	for _, g := range result.GeneratedRoutes {
		res.GeneratedRoutes = append(res.GeneratedRoutes, dto.GeneratedRouteResponse{
			RouteID:     g.RouteID,
			RouteName:   g.RouteName,
			VehicleID:   g.VehicleID,
			VehicleName: g.VehicleName,
			StopCount:   g.StopCount,
			DistanceKm:  g.DistanceKm,
			DurationMin: g.DurationMin,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// RemoveOrder unlinks an order from a route. Removing an order that was never
// linked still returns 200; the operation is idempotent.
func (h *RouteHandler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")
	orderID := r.PathValue("orderId")

	result, err := services.RemoveOrderFromRoute(r.Context(), routeID, orderID, h.businessID(r), h.Routes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RemoveOrderResponse{
		Success: result.Success,
		Message: result.Message,
	})
}
