package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleet-route-service/internal/api/dto"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/services"
)

// OrderHandler exposes read-only order lookups for dispatchers: pickup route
// suggestions and nearby delivery queries. Nothing here mutates state.
type OrderHandler struct {
	Vehicles ports.VehicleRepository
	Orders   ports.OrderRepository

	DefaultBusiness string
}

func (h *OrderHandler) businessID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Business-ID")); v != "" {
		return v
	}
	return h.DefaultBusiness
}

// SuggestPickup proposes a pickup visiting order for a vehicle at the given
// location. Query params: vehicle_id, lat, lon, max_stops (optional).
func (h *OrderHandler) SuggestPickup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	vehicleID := strings.TrimSpace(q.Get("vehicle_id"))
	if vehicleID == "" {
		writeError(w, r, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	location, ok := parseCoords(w, r, q.Get("lat"), q.Get("lon"))
	if !ok {
		return
	}

	maxStops := 0
	if raw := q.Get("max_stops"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "max_stops must be a positive integer")
			return
		}
		maxStops = n
	}

	sequenced, err := services.SuggestPickupRoute(r.Context(), h.businessID(r), vehicleID, location, maxStops, h.Vehicles, h.Orders)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toListOrdersResponse(sequenced))
}

// Nearby returns eligible delivery orders within radius_km of the given
// location. Query params: lat, lon, radius_km (optional, default 5).
func (h *OrderHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	location, ok := parseCoords(w, r, q.Get("lat"), q.Get("lon"))
	if !ok {
		return
	}

	radiusKm := 0.0
	if raw := q.Get("radius_km"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			writeError(w, r, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
		radiusKm = f
	}

	nearby, err := services.NearbyDeliveryOrders(r.Context(), h.businessID(r), location, radiusKm, h.Orders)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toListOrdersResponse(nearby))
}

func parseCoords(w http.ResponseWriter, r *http.Request, rawLat, rawLon string) (domain.Coordinates, bool) {
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lon, errLon := strconv.ParseFloat(rawLon, 64)
	if errLat != nil || errLon != nil {
		writeError(w, r, http.StatusBadRequest, "lat and lon are required numeric query params")
		return domain.Coordinates{}, false
	}

	coords := domain.Coordinates{Lat: lat, Lon: lon}
	if !coords.Valid() {
		writeError(w, r, http.StatusBadRequest, "lat/lon out of range")
		return domain.Coordinates{}, false
	}
	return coords, true
}

func toListOrdersResponse(orders []*domain.OrderLocationData) dto.ListOrdersResponse {
	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		item := dto.OrderResponse{
			OrderID:         o.OrderID,
			OrderNumber:     o.OrderNumber,
			CustomerName:    o.CustomerName,
			Status:          string(o.Status),
			Priority:        string(o.Priority),
			Address:         o.RoutingAddress(),
			ItemCount:       o.ItemCount,
			EstimatedWeight: o.EstimatedWeight,
		}
		if c := o.RoutingCoords(); c != nil {
			item.Coords = &dto.CoordinatesResponse{Lat: c.Lat, Lon: c.Lon}
		}
		res.Orders = append(res.Orders, item)
	}
	return res
}
