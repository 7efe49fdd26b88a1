package geocode

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"fleet-route-service/internal/domain"
)

// DefaultLocation is returned when a city cannot be resolved (Istanbul
// center). Callers must treat it as low-confidence.
var DefaultLocation = domain.Coordinates{Lat: 41.0082, Lon: 28.9784}

// jitterDegrees spreads repeated lookups within one city by up to ±0.005° per
// axis so addresses don't collide on the exact city center.
const jitterDegrees = 0.005

// Major-city centers. Keys are normalized with normalizeCity.
var cityCenters = map[string]domain.Coordinates{
	"istanbul":  {Lat: 41.0082, Lon: 28.9784},
	"ankara":    {Lat: 39.9334, Lon: 32.8597},
	"izmir":     {Lat: 38.4192, Lon: 27.1287},
	"bursa":     {Lat: 40.1885, Lon: 29.0610},
	"antalya":   {Lat: 36.8969, Lon: 30.7133},
	"adana":     {Lat: 37.0000, Lon: 35.3213},
	"konya":     {Lat: 37.8667, Lon: 32.4833},
	"gaziantep": {Lat: 37.0662, Lon: 37.3833},
	"mersin":    {Lat: 36.8000, Lon: 34.6333},
	"kayseri":   {Lat: 38.7312, Lon: 35.4787},
	"eskisehir": {Lat: 39.7767, Lon: 30.5206},
	"trabzon":   {Lat: 41.0015, Lon: 39.7178},
}

// StaticGeocoder resolves addresses against a static city-center table. It is
// a stand-in for a real geocoding provider behind the same interface; the
// address text itself is never parsed, only the city.
type StaticGeocoder struct{}

func NewStaticGeocoder() *StaticGeocoder { return &StaticGeocoder{} }

// normalizeCity lowercases and folds the Turkish dotless/dotted i variants so
// "İstanbul", "ISTANBUL" and "ıstanbul" all hit the same table entry.
func normalizeCity(city string) string {
	city = strings.ReplaceAll(city, "İ", "i")
	city = strings.ReplaceAll(city, "I", "i")
	city = strings.ToLower(strings.TrimSpace(city))
	return strings.ReplaceAll(city, "ı", "i")
}

// Geocode returns the city center perturbed by a small random jitter. An
// unrecognized or missing city logs a warning and resolves to
// DefaultLocation — a documented approximation, not a failure.
func (g *StaticGeocoder) Geocode(ctx context.Context, address, city string) (domain.Coordinates, error) {
	center, ok := cityCenters[normalizeCity(city)]
	if !ok {
		log.Printf("geocode: unknown city %q for address %q, using default location", city, address)
		center = DefaultLocation
	}

	return domain.Coordinates{
		Lat: center.Lat + (rand.Float64()*2-1)*jitterDegrees,
		Lon: center.Lon + (rand.Float64()*2-1)*jitterDegrees,
	}, nil
}

// ReverseGeocode returns a placeholder description embedding the coordinates;
// not a real reverse lookup.
func (g *StaticGeocoder) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error) {
	return fmt.Sprintf("Location near %.4f, %.4f", coords.Lat, coords.Lon), nil
}
