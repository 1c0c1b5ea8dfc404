package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/location"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/sos"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/validation"
)

type SOSHandler struct {
	orchestrator *sos.Orchestrator
	feed         *location.Feed
}

func NewSOSHandler(orchestrator *sos.Orchestrator, feed *location.Feed) *SOSHandler {
	return &SOSHandler{orchestrator: orchestrator, feed: feed}
}

// Activate handles POST /api/sos/activate. The body carries the device's
// permission state and its freshest position; both are folded into the
// feed before the orchestrator runs.
func (h *SOSHandler) Activate(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.SOSActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	h.feed.SetPermission(userID, req.PermissionGranted)
	if req.Latitude != nil && req.Longitude != nil {
		if err := validation.ValidateCoordinatePair(*req.Latitude, *req.Longitude, "position"); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		pos := location.Position{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Timestamp: time.Now(),
		}
		if req.Accuracy != nil {
			pos.Accuracy = *req.Accuracy
		}
		h.feed.ReportPosition(userID, pos)
	}

	report, err := h.orchestrator.Activate(c.Context(), userID)
	if err != nil {
		if errors.Is(err, sos.ErrAlreadyActive) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "SOS session already active",
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Could not activate SOS",
			"report": report,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ReportPosition handles POST /api/sos/position: one device sample pushed
// while SOS is active. The feed applies the watch's time/distance filters.
func (h *SOSHandler) ReportPosition(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.SOSPositionRequest
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

	pos := location.Position{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: time.Now(),
	}
	if req.Accuracy != nil {
		pos.Accuracy = *req.Accuracy
	}
	h.feed.ReportPosition(userID, pos)

	return c.JSON(fiber.Map{
		"message": "Position recorded",
	})
}

// Deactivate handles POST /api/sos/deactivate. Safe to call repeatedly.
func (h *SOSHandler) Deactivate(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	report := h.orchestrator.Deactivate(c.Context(), userID)
	return c.JSON(report)
}

// GetStatus handles GET /api/sos/status for the emergency screen.
func (h *SOSHandler) GetStatus(c *fiber.Ctx) error {
	userID, ok := userIDFromLocals(c.Locals("userID"))
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(h.orchestrator.Status(userID))
}
