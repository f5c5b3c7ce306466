package handlers

import (
	"github.com/Ananth-NQI/docverify-backend/internal/middleware"
	"github.com/Ananth-NQI/docverify-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
	}
}

// Get returns the admin view for admins and the officer's own view otherwise
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	officerID := middleware.UserID(c)
	if middleware.Role(c) == middleware.RoleAdmin {
		officerID = ""
	}

	summary, err := h.dashboard.Summary(officerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load dashboard",
		})
	}
	return c.JSON(summary)
}
