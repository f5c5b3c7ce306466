package handlers

import (
	"log"

	"github.com/Ananth-NQI/docverify-backend/internal/middleware"
	"github.com/Ananth-NQI/docverify-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// VerificationHandler handles manual verification and verification history
type VerificationHandler struct {
	engine    *services.VerificationEngine
	dashboard *services.DashboardService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(engine *services.VerificationEngine, dashboard *services.DashboardService) *VerificationHandler {
	return &VerificationHandler{
		engine:    engine,
		dashboard: dashboard,
	}
}

// VerifyByDocumentNumber checks a document number typed in by the officer
func (h *VerificationHandler) VerifyByDocumentNumber(c *fiber.Ctx) error {
	var req struct {
		DocumentNumber string `json:"documentNumber"`
		Location       string `json:"location"`
		Notes          string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.DocumentNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document number is required",
		})
	}
	return h.verifyIdentifier(c, req.DocumentNumber, req.Location, req.Notes)
}

// VerifyByIdentifier checks a document number or a driver card identifier
func (h *VerificationHandler) VerifyByIdentifier(c *fiber.Ctx) error {
	var req struct {
		Identifier string `json:"identifier"`
		Location   string `json:"location"`
		Notes      string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Identifier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Identifier is required",
		})
	}
	return h.verifyIdentifier(c, req.Identifier, req.Location, req.Notes)
}

func (h *VerificationHandler) verifyIdentifier(c *fiber.Ctx, identifier, location, notes string) error {
	out, err := h.engine.VerifyByIdentifier(identifier, verifyContext(c, location, notes))
	if err != nil {
		log.Printf("Document verification error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Verification failed",
		})
	}
	return c.JSON(out)
}

// GetHistory lists the authenticated officer's recent checks
func (h *VerificationHandler) GetHistory(c *fiber.Ctx) error {
	logs, err := h.dashboard.VerificationHistory(middleware.UserID(c), c.QueryInt("limit", 50))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve verification history",
		})
	}
	return c.JSON(fiber.Map{
		"verifications": logs,
		"count":         len(logs),
	})
}

// GetDriverHistory lists every check made against a driver
func (h *VerificationHandler) GetDriverHistory(c *fiber.Ctx) error {
	driverID := c.Params("driverId")
	if driverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Driver ID is required",
		})
	}

	logs, err := h.dashboard.DriverVerificationHistory(driverID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve driver verification history",
		})
	}
	return c.JSON(fiber.Map{
		"verifications": logs,
		"count":         len(logs),
	})
}

// GetOfficerStats counts the authenticated officer's results
func (h *VerificationHandler) GetOfficerStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.OfficerStats(middleware.UserID(c), c.QueryInt("days", 30))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve officer statistics",
		})
	}
	return c.JSON(stats)
}

// GetSystemStats counts all results
func (h *VerificationHandler) GetSystemStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.SystemStats(c.QueryInt("days", 30))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve system statistics",
		})
	}
	return c.JSON(stats)
}
