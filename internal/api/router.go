package api

import (
	"net/http"

	"fleet-route-service/internal/api/handlers"
	"fleet-route-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(
	routes ports.RouteRepository,
	vehicles ports.VehicleRepository,
	orders ports.OrderRepository,
	geocoder ports.Geocoder,
	defaultBusiness string,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Routes:          routes,
		Vehicles:        vehicles,
		Orders:          orders,
		Geocoder:        geocoder,
		DefaultBusiness: defaultBusiness,
	}
	orderHandler := &handlers.OrderHandler{
		Vehicles:        vehicles,
		Orders:          orders,
		DefaultBusiness: defaultBusiness,
	}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /routes/generate", routeHandler.Generate)
	mux.HandleFunc("POST /routes/{id}/assign", routeHandler.Assign)
	mux.HandleFunc("DELETE /routes/{id}/orders/{orderId}", routeHandler.RemoveOrder)
	mux.HandleFunc("GET /routes/suggest-pickup", orderHandler.SuggestPickup)
	mux.HandleFunc("GET /orders/nearby", orderHandler.Nearby)

	return loggingMiddleware(mux)
}
