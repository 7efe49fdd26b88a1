package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/geocode"
	"fleet-route-service/internal/adapters/repositories"
	"fleet-route-service/internal/api"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/ports"
)

// main is the application composition root. It wires concrete adapters
// (Postgres, geocoding, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	port := config.Get("PORT", "8080")
	defaultBusiness := config.Get("DEFAULT_BUSINESS_ID", "")

	conn, err := db.Open(context.Background(), databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	geocoder := buildGeocoder()

	routes := repositories.NewPostgresRouteRepository(conn)
	vehicles := repositories.NewPostgresVehicleRepository(conn)
	orders := repositories.NewPostgresOrderRepository(conn)

	router := api.NewRouter(routes, vehicles, orders, geocoder, defaultBusiness)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildGeocoder picks the geocoding provider: OpenRouteService when a key is
// configured, the static city table otherwise. With REDIS_ADDR set, either
// provider is wrapped in the Redis result cache.
func buildGeocoder() ports.Geocoder {
	var geocoder ports.Geocoder

	if key := strings.TrimSpace(os.Getenv("ORS_API_KEY")); key != "" {
		ors, err := geocode.NewORSGeocoder(key)
		if err != nil {
			log.Fatal(err)
		}
		geocoder = ors
		log.Println("Geocoder: OpenRouteService")
	} else {
		geocoder = geocode.NewStaticGeocoder()
		log.Println("Geocoder: static city table")
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		return geocoder
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	cached, err := cache.NewRedisGeocodeCache(geocoder, rdb, cache.DefaultGeocodeTTL)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Geocode cache: redis addr=%s", redisAddr)
	return cached
}
