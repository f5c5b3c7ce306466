package routes

import (
	"github.com/Ananth-NQI/docverify-backend/internal/handlers"
	"github.com/Ananth-NQI/docverify-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything the route table needs
type Handlers struct {
	QR           *handlers.QRHandler
	Verification *handlers.VerificationHandler
	Dashboard    *handlers.DashboardHandler
	Admin        *handlers.AdminHandler
	Health       *handlers.HealthHandler
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h Handlers, jwtSecret string) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Document Verification Backend",
			"version": h.Health.Version,
			"endpoints": fiber.Map{
				"health":        "/health",
				"qr":            "/api/qr",
				"verifications": "/api/verifications",
				"dashboard":     "/api/dashboard",
				"admin":         "/api/admin",
			},
		})
	})

	app.Get("/health", h.Health.Check)

	// API routes
	api := app.Group("/api", middleware.Authenticate(jwtSecret))

	staff := middleware.RequireRole(middleware.RoleOfficer, middleware.RoleAdmin)

	// QR routes
	qr := api.Group("/qr")
	qr.Get("/me", middleware.RequireRole(middleware.RoleDriver), h.QR.GetMyQRCode)
	qr.Get("/documents/:documentId", middleware.RequireRole(middleware.RoleDriver), h.QR.GetDocumentQRCode)
	qr.Post("/verify", staff, h.QR.VerifyQRCode)

	// Verification routes
	verifications := api.Group("/verifications", staff)
	verifications.Post("/document", h.Verification.VerifyByDocumentNumber)
	verifications.Post("/identifier", h.Verification.VerifyByIdentifier)
	verifications.Get("/history", h.Verification.GetHistory)
	verifications.Get("/drivers/:driverId", h.Verification.GetDriverHistory)
	verifications.Get("/stats", h.Verification.GetOfficerStats)
	verifications.Get("/stats/system", middleware.RequireRole(middleware.RoleAdmin), h.Verification.GetSystemStats)

	// Dashboard
	api.Get("/dashboard", staff, h.Dashboard.Get)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	admin.Put("/documents/:documentId/status", h.Admin.UpdateDocumentStatus)
	admin.Delete("/drivers/:driverId/deactivate", h.Admin.DeactivateDriver)
}
