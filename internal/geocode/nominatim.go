// ============================================================================
// Reverse Geocoding Client - Tourist Safety App
// ============================================================================
// Resolves coordinates to a human-readable place using Nominatim
// (OpenStreetMap). Best-effort: callers must tolerate empty results and
// fall back to raw coordinates.
// ============================================================================

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/cache"
)

// Geocoder maps coordinates to zero-or-one place descriptor.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// Place is a reverse-geocode result with optional components.
type Place struct {
	Name   string `json:"name,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	Region string `json:"region,omitempty"`
}

// IsZero reports whether no component was resolved.
func (p Place) IsZero() bool {
	return p.Name == "" && p.Street == "" && p.City == "" && p.Region == ""
}

// Label renders the place the way the app displays it: "name, city" with
// street/region as fallbacks and a tidy result when parts are missing.
func (p Place) Label() string {
	first := p.Name
	if first == "" {
		first = p.Street
	}
	second := p.City
	if second == "" {
		second = p.Region
	}
	label := first + ", " + second
	label = strings.TrimPrefix(label, ", ")
	return strings.TrimSuffix(label, ", ")
}

// nominatimAddress is the subset of Nominatim address details we consume.
type nominatimAddress struct {
	Attraction    string `json:"attraction"`
	Building      string `json:"building"`
	Road          string `json:"road"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
}

type nominatimReverseResponse struct {
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

// Client queries the Nominatim reverse endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a geocoding client. baseURL may be empty to use the
// public Nominatim instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// User-Agent requerido por Nominatim
		userAgent: "TouristSafetyApp/1.0 (Safety Monitor)",
	}
}

// Reverse resolves lat/lng to a Place. Results are cached briefly since
// the SOS watch re-geocodes every few seconds from nearby positions.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	cacheKey := fmt.Sprintf("reverse:%.4f,%.4f", lat, lng)
	if cache.GeocodeCache != nil {
		if cached, found := cache.GeocodeCache.Get(cacheKey); found {
			if place, ok := cached.(Place); ok {
				return place, nil
			}
		}
	}

	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%.6f", lat))
	params.Add("lon", fmt.Sprintf("%.6f", lng))
	params.Add("format", "json")
	params.Add("addressdetails", "1")

	fullURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Place{}, err
	}

	var parsed nominatimReverseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Place{}, fmt.Errorf("parsing geocoding response: %w", err)
	}

	place := placeFromAddress(parsed.Address)
	if cache.GeocodeCache != nil && !place.IsZero() {
		cache.GeocodeCache.Set(cacheKey, place)
	}
	return place, nil
}

func placeFromAddress(addr nominatimAddress) Place {
	name := addr.Attraction
	if name == "" {
		name = addr.Building
	}
	city := addr.City
	if city == "" {
		city = addr.Town
	}
	if city == "" {
		city = addr.Village
	}
	if city == "" {
		city = addr.Suburb
	}
	return Place{
		Name:   name,
		Street: addr.Road,
		City:   city,
		Region: addr.State,
	}
}
