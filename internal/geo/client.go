// Package geo talks to the external geocoding/routing service. The planner
// core stores activities without coordinates; this client resolves them on
// demand for the map view, outside the normalization pass.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/umahmood/haversine"

	"github.com/planweave/planweave/internal/domain"
)

// Config holds the collaborator endpoints. RouteURL may be empty: route
// requests then fall back to a haversine estimate instead of failing.
type Config struct {
	GeocodeURL string
	RouteURL   string
	APIKey     string
	// RetryBase is the initial backoff for rate-limited calls.
	// Zero means 500ms.
	RetryBase time.Duration
}

// Route is a driving-route estimate between two points.
type Route struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_min"`
	Tolls       float64 `json:"tolls"`
	// Estimated is true when the value came from the haversine fallback
	// rather than the routing service.
	Estimated bool `json:"estimated"`
}

// Client calls the geocoding/routing endpoints with a bounded exponential
// backoff for rate-limit responses. All other failures propagate immediately.
type Client struct {
	cfg   Config
	cache *Cache
	httpc *http.Client
}

// NewClient constructs a Client using the provided cache. The caller owns
// the cache and may share it across clients.
func NewClient(cfg Config, cache *Cache) *Client {
	if cfg.RetryBase == 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	return &Client{
		cfg:   cfg,
		cache: cache,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

// Geocode resolves an address to coordinates, consulting the cache first.
// Rate-limited calls are retried up to 3 times with exponential backoff.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	if address == "" {
		return domain.Coordinates{}, fmt.Errorf("geo.Client.Geocode: %w: empty address", domain.ErrValidation)
	}
	if v, ok := c.cache.get(address); ok {
		return v, nil
	}

	var result domain.Coordinates
	backoff := retry.WithMaxRetries(3, retry.NewExponential(c.cfg.RetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, err := c.geocodeOnce(ctx, address)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geo.Client.Geocode: %w", err)
	}

	c.cache.put(address, result)
	return result, nil
}

func (c *Client) geocodeOnce(ctx context.Context, address string) (domain.Coordinates, error) {
	u := c.cfg.GeocodeURL + "?address=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.Coordinates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		// Only rate-limit responses are worth an automatic retry.
		return domain.Coordinates{}, retry.RetryableError(domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("geocoder status %s", resp.Status)
	}

	var v domain.Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocoder response: %w", err)
	}
	return v, nil
}

// DriveRoute returns a route estimate from from to to. With no routing
// endpoint configured it computes a haversine great-circle distance and a
// duration assuming 60 km/h average driving speed, marked Estimated.
func (c *Client) DriveRoute(ctx context.Context, from, to domain.Coordinates) (Route, error) {
	if c.cfg.RouteURL == "" {
		_, km := haversine.Distance(
			haversine.Coord{Lat: from.Lat, Lon: from.Lng},
			haversine.Coord{Lat: to.Lat, Lon: to.Lng},
		)
		return Route{DistanceKm: km, DurationMin: km, Estimated: true}, nil
	}

	u := fmt.Sprintf("%s?from=%f,%f&to=%f,%f", c.cfg.RouteURL, from.Lng, from.Lat, to.Lng, to.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Route{}, fmt.Errorf("geo.Client.DriveRoute: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("geo.Client.DriveRoute: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("geo.Client.DriveRoute: router status %s", resp.Status)
	}

	var r Route
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Route{}, fmt.Errorf("geo.Client.DriveRoute: decode response: %w", err)
	}
	return r, nil
}
