package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/board"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/cache"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/contacts"
	appdb "github.com/Aisekaisee/Tourist-Safety-App/internal/db"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/geocode"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/handlers"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/location"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/notify"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/routes"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/safety"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/sos"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/status"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()
	app.Use(logger.New())

	cache.InitCaches()

	// ============================================================================
	// CONTACT STORE
	// ============================================================================
	contactsDir := os.Getenv("CONTACTS_DB_PATH")
	if contactsDir == "" {
		contactsDir = "./data/contacts"
	}
	store, err := contacts.Open(contactsDir)
	if err != nil {
		log.Fatalf("❌ Could not open contact store at %s: %v", contactsDir, err)
	}
	log.Printf("✅ Contact store open at %s", contactsDir)

	// ============================================================================
	// SHARED SERVICES
	// ============================================================================
	feed := location.NewFeed()
	geocoder := geocode.NewClient(os.Getenv("NOMINATIM_URL"))
	sms := notify.NewGatewaySender()
	scoreService := safety.NewService()

	countryCode := os.Getenv("DEFAULT_COUNTRY_CODE")
	sosConfig := sos.DefaultConfig()
	if countryCode != "" {
		sosConfig.DefaultCountryCode = countryCode
	}

	// ============================================================================
	// DB CONNECTION (retry loop, routes register once ready)
	// ============================================================================
	var dbReady bool

	go func() {
		for {
			db, err := appdb.Connect()
			if err != nil {
				log.Printf("db connect error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if err := appdb.EnsureSchema(db); err != nil {
				log.Printf("ensure schema error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			handlers.Setup(db)

			publisher := status.NewPublisher(db)
			publisher.OnChange(board.DefaultHub.PublishStatus)

			orchestrator := sos.New(feed, geocoder, store, sms, publisher, sosConfig)

			routes.Register(app, routes.Deps{
				ContactStore:       store,
				Feed:               feed,
				Geocoder:           geocoder,
				SMS:                sms,
				Publisher:          publisher,
				Orchestrator:       orchestrator,
				SafetyScore:        scoreService,
				DefaultCountryCode: sosConfig.DefaultCountryCode,
			})
			dbReady = true
			log.Printf("✅ Database ready and routes registered")
			return
		}
	}()

	// Wait briefly for DB to be ready
	for i := 0; i < 10 && !dbReady; i++ {
		time.Sleep(500 * time.Millisecond)
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Termination signal received, shutting down...")

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error shutting down server: %v", err)
		}

		scoreService.Stop()
		cache.StopCaches()
		if err := store.Close(); err != nil {
			log.Printf("⚠️  Error closing contact store: %v", err)
		}

		log.Println("✅ Server closed cleanly")
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server listening on :%s", port)
	log.Println("📍 Available endpoints:")
	log.Println("   ═══ SOS ═══")
	log.Println("   POST /api/sos/activate              - Activate SOS (notifies contacts)")
	log.Println("   POST /api/sos/position              - Push one position sample")
	log.Println("   POST /api/sos/deactivate            - Deactivate SOS (idempotent)")
	log.Println("   GET  /api/sos/status                - Session state for the emergency screen")
	log.Println("")
	log.Println("   ═══ CONTACTS / SAFETY ═══")
	log.Println("   GET  /api/contacts                  - Emergency contacts")
	log.Println("   GET  /api/safety/score              - Safety score widget")
	log.Println("   GET  /api/status/board              - Live status board (also /ws/board)")
	log.Println("")
	log.Println("💡 Press Ctrl+C to stop")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
