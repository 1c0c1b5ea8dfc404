package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/board"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/contacts"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/geocode"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/handlers"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/location"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/middleware"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/notify"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/safety"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/sos"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/status"
)

// Deps carries the shared services the route handlers are built from.
type Deps struct {
	ContactStore *contacts.Store
	Feed         *location.Feed
	Geocoder     geocode.Geocoder
	SMS          notify.Sender
	Publisher    *status.Publisher
	Orchestrator *sos.Orchestrator
	SafetyScore  *safety.Service

	DefaultCountryCode string
}

// Register wires every HTTP route. handlers.Setup must have run first so
// the package-level auth handlers see the database.
func Register(app *fiber.App, deps Deps) {
	// ============================================================================
	// PUBLIC API
	// ============================================================================
	api := app.Group("/api")
	api.Use(middleware.RateLimiter()) // 100 req/min

	// Initialize handlers
	contactsHandler := handlers.NewContactsHandler(deps.ContactStore, deps.DefaultCountryCode)
	sosHandler := handlers.NewSOSHandler(deps.Orchestrator, deps.Feed)
	boardHandler := handlers.NewStatusBoardHandler(deps.Publisher)
	geocodingHandler := handlers.NewGeocodingHandler(deps.Geocoder)
	safetyHandler := handlers.NewSafetyHandler(deps.SafetyScore, deps.Geocoder)
	healthHandler := handlers.NewHealthHandler(deps.SMS, deps.ContactStore)

	// Health check
	api.Get("/health", healthHandler.Health)

	// ============================================================================
	// AUTHENTICATION (strict rate limiting)
	// ============================================================================
	api.Post("/register", middleware.StrictRateLimiter(), handlers.Register)
	api.Post("/login", middleware.StrictRateLimiter(), handlers.Login)

	requireAuth := middleware.RequireAuth(handlers.JWTSecret)

	api.Get("/me", requireAuth, handlers.Me)

	// ============================================================================
	// EMERGENCY CONTACTS
	// ============================================================================
	contactsGroup := api.Group("/contacts", requireAuth)
	contactsGroup.Get("/", contactsHandler.ListContacts)
	contactsGroup.Post("/", contactsHandler.CreateContact)
	contactsGroup.Delete("/:id", contactsHandler.DeleteContact)
	contactsGroup.Put("/:id/primary", contactsHandler.SetPrimaryContact)

	// ============================================================================
	// SOS FLOW
	// ============================================================================
	sosGroup := api.Group("/sos", requireAuth)
	sosGroup.Post("/activate", sosHandler.Activate)
	// POST /api/sos/activate
	// Body: {permission_granted, latitude, longitude, accuracy}

	sosGroup.Post("/position", sosHandler.ReportPosition)
	// POST /api/sos/position - device pushes one position sample

	sosGroup.Post("/deactivate", sosHandler.Deactivate)
	// POST /api/sos/deactivate - idempotent

	sosGroup.Get("/status", sosHandler.GetStatus)
	// GET /api/sos/status - emergency screen state incl. elapsed mm:ss

	// ============================================================================
	// SAFETY WIDGETS
	// ============================================================================
	api.Get("/safety/score", safetyHandler.GetScore)
	api.Get("/safety/emergency-numbers", safetyHandler.GetEmergencyNumbers)
	api.Post("/safety/share-location", requireAuth, safetyHandler.ShareLocation)

	// ============================================================================
	// GEOCODING
	// ============================================================================
	api.Get("/geocode/reverse", geocodingHandler.ReverseGeocode)
	// GET /api/geocode/reverse?lat=X&lon=Y

	// ============================================================================
	// INCIDENTS (safety reports)
	// ============================================================================
	incidents := api.Group("/incidents")
	incidents.Post("/", requireAuth, handlers.CreateIncident)
	incidents.Get("/nearby", handlers.GetNearbyIncidents)
	// GET /api/incidents/nearby?lat=X&lon=Y&radius_km=2&only_recent=true

	// ============================================================================
	// STATUS BOARD (dashboard)
	// ============================================================================
	api.Get("/status/board", boardHandler.GetBoard)

	// WebSocket push channel for the dashboard
	app.Use("/ws/board", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/board", websocket.New(func(c *websocket.Conn) {
		board.DefaultHub.HandleConn(c)
	}))
}
