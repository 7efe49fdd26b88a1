package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleet-route-service/internal/domain"
)

// ORSGeocoder implements the Geocoder port against the OpenRouteService
// geocoding API. It is the production replacement for StaticGeocoder; no
// caller changes when it is swapped in.
//
// The client is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
}

func NewORSGeocoder(apiKey string) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		country: "TR",
	}, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// normalize collapses whitespace for consistent query text.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves an address via /geocode/search, taking the top-ranked hit.
func (o *ORSGeocoder) Geocode(ctx context.Context, address, city string) (domain.Coordinates, error) {
	text := normalize(address)
	if city != "" {
		text = normalize(address + ", " + city)
	}
	if text == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	endpoint := o.baseURL + "/geocode/search"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		q.Set("boundary.country", o.country)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", text, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", text, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no results", text)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: invalid coordinate format", text)
	}

	// ORS returns [lon, lat].
	result := domain.Coordinates{Lat: coords[1], Lon: coords[0]}
	if !result.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: out-of-range coordinates", text)
	}
	return result, nil
}

// ReverseGeocode resolves a coordinate to its nearest address label via
// /geocode/reverse.
func (o *ORSGeocoder) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error) {
	endpoint := o.baseURL + "/geocode/reverse"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("point.lat", strconv.FormatFloat(coords.Lat, 'f', 6, 64))
		q.Set("point.lon", strconv.FormatFloat(coords.Lon, 'f', 6, 64))
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", coords, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("reverse geocode %s: decode response: %w", coords, err)
	}

	if len(decoded.Features) == 0 || decoded.Features[0].Properties.Label == "" {
		// Fall back to the placeholder description rather than failing.
		return fmt.Sprintf("Location near %.4f, %.4f", coords.Lat, coords.Lon), nil
	}

	return decoded.Features[0].Properties.Label, nil
}
