package handlers

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/contacts"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/notify"
)

// HealthResponse reports overall system health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version,omitempty"`
}

type HealthHandler struct {
	sms   notify.Sender
	store *contacts.Store
}

func NewHealthHandler(sms notify.Sender, store *contacts.Store) *HealthHandler {
	return &HealthHandler{sms: sms, store: store}
}

// Health provides the full system health check.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := make(map[string]string)
	overall := "healthy"

	// ============================================================================
	// CHECK: Database
	// ============================================================================
	db := getDBConn()
	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not_initialized"
		overall = "degraded"
	}

	// ============================================================================
	// CHECK: SMS gateway
	// ============================================================================
	// An absent gateway is not degradation; contact notification falls back
	// to the sms: deep link on the device.
	if h.sms != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if h.sms.IsAvailable(ctx) {
			services["sms_gateway"] = "healthy"
		} else {
			services["sms_gateway"] = "unavailable (deep link fallback active)"
		}
	} else {
		services["sms_gateway"] = "not_configured"
	}

	// ============================================================================
	// CHECK: Contact store
	// ============================================================================
	if h.store != nil {
		if err := h.store.Ping(); err != nil {
			services["contact_store"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["contact_store"] = "healthy"
		}
	} else {
		services["contact_store"] = "not_initialized"
		overall = "degraded"
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Version:   os.Getenv("APP_VERSION"),
	})
}
