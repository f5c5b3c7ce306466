package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Ananth-NQI/docverify-backend/database"
	"github.com/Ananth-NQI/docverify-backend/internal/config"
	"github.com/Ananth-NQI/docverify-backend/internal/handlers"
	"github.com/Ananth-NQI/docverify-backend/internal/jobs"
	"github.com/Ananth-NQI/docverify-backend/internal/qrimage"
	"github.com/Ananth-NQI/docverify-backend/internal/routes"
	"github.com/Ananth-NQI/docverify-backend/internal/services"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize storage
	var store storage.Store
	var ping func() error

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatal(err)
		}

		log.Println("🔄 Running database migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(db)
		ping = func() error { return database.Ping(db) }
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize services
	lookup := services.NewLookup(store, store)
	audit := services.NewAuditLogger(store)
	engine := services.NewVerificationEngine(lookup, audit, services.WithStaleWindow(cfg.QRStaleWindow))
	renderer := qrimage.NewRenderer(cfg.QRImageSize)
	qrService := services.NewQRCodeService(lookup, store, renderer, cfg.QRStaleWindow)
	dashboard := services.NewDashboardService(store)

	expirySweep := jobs.NewExpirySweep(store, cfg.ExpirySweepInterval)
	expirySweep.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Document Verification Backend v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Handlers{
		QR:           handlers.NewQRHandler(qrService, engine),
		Verification: handlers.NewVerificationHandler(engine, dashboard),
		Dashboard:    handlers.NewDashboardHandler(dashboard),
		Admin:        handlers.NewAdminHandler(store),
		Health:       handlers.NewHealthHandler(version, cfg.StorageType(), ping),
	}, cfg.JWTSecret)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		expirySweep.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 Document Verification Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", cfg.StorageType())
	log.Printf("🌍 Environment: %s", cfg.Environment())
	log.Printf("⏱️  QR codes valid for %v", engine.StaleWindow())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}
