package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
)

// DefaultGeocodeTTL keeps resolved coordinates for a week; addresses don't
// move, but stale provider data should eventually age out.
const DefaultGeocodeTTL = 7 * 24 * time.Hour

// RedisGeocodeCache decorates a Geocoder with a Redis lookaside cache.
// Caching also pins jittered static-geocoder results, so repeated lookups of
// one address stay stable within the TTL.
type RedisGeocodeCache struct {
	inner ports.Geocoder
	rdb   *redis.Client
	ttl   time.Duration
}

func NewRedisGeocodeCache(inner ports.Geocoder, rdb *redis.Client, ttl time.Duration) (*RedisGeocodeCache, error) {
	if inner == nil {
		return nil, errors.New("geocode cache: inner geocoder is nil")
	}
	if rdb == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}
	if ttl <= 0 {
		ttl = DefaultGeocodeTTL
	}
	return &RedisGeocodeCache{inner: inner, rdb: rdb, ttl: ttl}, nil
}

// key collapses whitespace so formatting differences share one cache entry.
func (c *RedisGeocodeCache) key(address, city string) string {
	norm := func(s string) string { return strings.ToLower(strings.Join(strings.Fields(s), " ")) }
	return "geocode:" + norm(address) + "|" + norm(city)
}

func encodeCoords(coords domain.Coordinates) string {
	return strconv.FormatFloat(coords.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(coords.Lon, 'f', -1, 64)
}

func decodeCoords(s string) (domain.Coordinates, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("malformed cache entry %q", s)
	}
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed latitude %q: %w", lat, err)
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("malformed longitude %q: %w", lon, err)
	}
	return domain.Coordinates{Lat: latF, Lon: lonF}, nil
}

// Geocode serves from cache when possible. Cache failures degrade to the
// inner geocoder rather than failing the lookup.
func (c *RedisGeocodeCache) Geocode(ctx context.Context, address, city string) (domain.Coordinates, error) {
	key := c.key(address, city)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		coords, decErr := decodeCoords(cached)
		if decErr == nil {
			return coords, nil
		}
		log.Printf("geocode cache: bad entry for %q: %v", key, decErr)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("geocode cache: read %q failed: %v", key, err)
	}

	coords, err := c.inner.Geocode(ctx, address, city)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if err := c.rdb.Set(ctx, key, encodeCoords(coords), c.ttl).Err(); err != nil {
		log.Printf("geocode cache: write %q failed: %v", key, err)
	}

	return coords, nil
}

// ReverseGeocode passes through uncached; reverse lookups are rare and cheap.
func (c *RedisGeocodeCache) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error) {
	return c.inner.ReverseGeocode(ctx, coords)
}
