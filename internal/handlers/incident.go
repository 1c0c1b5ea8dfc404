package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/location"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/validation"
)

var incidentTypes = map[models.IncidentType]bool{
	models.IncidentUnsafeArea: true,
	models.IncidentTheft:      true,
	models.IncidentHarassment: true,
	models.IncidentScam:       true,
	models.IncidentAccident:   true,
	models.IncidentOther:      true,
}

var incidentSeverities = map[models.IncidentSeverity]bool{
	models.SeverityLow:      true,
	models.SeverityMedium:   true,
	models.SeverityHigh:     true,
	models.SeverityCritical: true,
}

// CreateIncident handles POST /api/incidents.
func CreateIncident(c *fiber.Ctx) error {
	db := getDBConn()
	if db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "server not ready",
		})
	}

	var req models.IncidentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !incidentTypes[req.Type] {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Unknown incident type",
		})
	}
	if req.Severity == "" {
		req.Severity = models.SeverityMedium
	}
	if !incidentSeverities[req.Severity] {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Unknown severity",
		})
	}
	if err := validation.ValidateCoordinatePair(req.Latitude, req.Longitude, "incident"); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if validation.IsZeroCoordinate(req.Latitude, req.Longitude) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "A real coordinate is required",
		})
	}

	reporterID := "anonymous"
	if userID, ok := userIDFromLocals(c.Locals("userID")); ok {
		reporterID = formatReporterID(userID)
	}

	result, err := db.Exec(`
		INSERT INTO incidents (
			type, latitude, longitude, severity, reporter_id, description, created_at
		) VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, req.Type, req.Latitude, req.Longitude, req.Severity, reporterID, req.Description)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create incident",
		})
	}

	incidentID, _ := result.LastInsertId()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Incident reported successfully",
		"incident_id": incidentID,
	})
}

// GetNearbyIncidents handles GET /api/incidents/nearby. Bounding-box query
// first, exact Haversine filter after.
func GetNearbyIncidents(c *fiber.Ctx) error {
	db := getDBConn()
	if db == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "server not ready",
		})
	}

	lat := c.QueryFloat("lat", 0)
	lon := c.QueryFloat("lon", 0)
	radiusKm := c.QueryFloat("radius_km", 2.0)
	onlyRecent := c.QueryBool("only_recent", true)

	if validation.IsZeroCoordinate(lat, lon) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Latitude and longitude are required",
		})
	}
	if err := validation.ValidateCoordinatePair(lat, lon, "query"); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Roughly 111km per degree of latitude
	latDelta := radiusKm / 111.0
	lonDelta := radiusKm / (111.0 * math.Cos(lat*math.Pi/180.0))

	query := `
		SELECT id, type, latitude, longitude, severity, reporter_id, description, created_at
		FROM incidents
		WHERE latitude BETWEEN ? AND ?
		AND longitude BETWEEN ? AND ?
	`
	args := []interface{}{
		lat - latDelta,
		lat + latDelta,
		lon - lonDelta,
		lon + lonDelta,
	}

	if onlyRecent {
		query += " AND created_at > DATE_SUB(NOW(), INTERVAL 24 HOUR)"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := db.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch incidents",
		})
	}
	defer rows.Close()

	incidents := []models.Incident{}
	for rows.Next() {
		var incident models.Incident
		var incType, severity string
		err := rows.Scan(
			&incident.ID,
			&incType,
			&incident.Latitude,
			&incident.Longitude,
			&severity,
			&incident.ReporterID,
			&incident.Description,
			&incident.CreatedAt,
		)
		if err != nil {
			continue
		}
		incident.Type = models.IncidentType(incType)
		incident.Severity = models.IncidentSeverity(severity)

		distanceKm := location.DistanceMeters(lat, lon, incident.Latitude, incident.Longitude) / 1000.0
		if distanceKm <= radiusKm {
			incidents = append(incidents, incident)
		}
	}

	return c.JSON(fiber.Map{
		"incidents": incidents,
		"count":     len(incidents),
	})
}

func formatReporterID(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}
