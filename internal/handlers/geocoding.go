// ============================================================================
// Geocoding Handler - Tourist Safety App
// ============================================================================
// Endpoint for resolving coordinates to a place label using Nominatim
// (OpenStreetMap), the same resolver the SOS flow uses internally.
// ============================================================================

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/geocode"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/validation"
)

type GeocodingHandler struct {
	geocoder geocode.Geocoder
}

func NewGeocodingHandler(geocoder geocode.Geocoder) *GeocodingHandler {
	return &GeocodingHandler{geocoder: geocoder}
}

// ============================================================================
// ENDPOINT: GET /api/geocode/reverse
// ============================================================================
// Query params:
//   - lat: latitude
//   - lon: longitude
// Best effort: an unresolvable coordinate returns an empty place, not an
// error, so clients can fall back to showing raw coordinates.
// ============================================================================
func (h *GeocodingHandler) ReverseGeocode(c *fiber.Ctx) error {
	lat := c.QueryFloat("lat", 0)
	lon := c.QueryFloat("lon", 0)

	if validation.IsZeroCoordinate(lat, lon) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Parameters 'lat' and 'lon' are required",
		})
	}
	if err := validation.ValidateCoordinatePair(lat, lon, "query"); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	place, err := h.geocoder.Reverse(c.Context(), lat, lon)
	if err != nil || place.IsZero() {
		return c.JSON(fiber.Map{
			"place": nil,
			"label": "",
		})
	}

	return c.JSON(fiber.Map{
		"place": place,
		"label": place.Label(),
	})
}
