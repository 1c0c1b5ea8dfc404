package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/geocode"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/notify"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/safety"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/validation"
)

// EmergencyNumber is one entry of the always-available dial list.
type EmergencyNumber struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

// Shown on the emergency screen regardless of saved contacts.
var emergencyNumbers = []EmergencyNumber{
	{Label: "Emergency Services", Number: "112"},
	{Label: "Police", Number: "100"},
	{Label: "Tourist Helpline", Number: "1363"},
}

// SafetyHandler serves the home-screen safety widgets.
type SafetyHandler struct {
	score    *safety.Service
	geocoder geocode.Geocoder
}

func NewSafetyHandler(score *safety.Service, geocoder geocode.Geocoder) *SafetyHandler {
	return &SafetyHandler{score: score, geocoder: geocoder}
}

// GetScore handles GET /api/safety/score.
func (h *SafetyHandler) GetScore(c *fiber.Ctx) error {
	return c.JSON(h.score.Current())
}

// GetEmergencyNumbers handles GET /api/safety/emergency-numbers.
func (h *SafetyHandler) GetEmergencyNumbers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"numbers": emergencyNumbers,
	})
}

type shareLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ShareLocation handles POST /api/safety/share-location: composes the
// plain-text message the device hands to its native share sheet.
func (h *SafetyHandler) ShareLocation(c *fiber.Ctx) error {
	var req shareLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validation.ValidateCoordinatePair(req.Latitude, req.Longitude, "position"); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if validation.IsZeroCoordinate(req.Latitude, req.Longitude) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "A real position is required",
		})
	}

	// Place lookup is best effort, the message reads fine without it
	place := ""
	if h.geocoder != nil {
		if p, err := h.geocoder.Reverse(c.Context(), req.Latitude, req.Longitude); err == nil && !p.IsZero() {
			place = p.Label()
		}
	}

	message := notify.ShareMessage(req.Latitude, req.Longitude, place)
	return c.JSON(fiber.Map{
		"message":   message,
		"maps_link": notify.MapsLink(req.Latitude, req.Longitude),
	})
}
