package handlers

import (
	"errors"
	"log"

	"github.com/Ananth-NQI/docverify-backend/internal/middleware"
	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// AdminStore is the slice of storage the admin handler mutates
type AdminStore interface {
	GetDocument(id string) (*models.Document, error)
	UpdateDocumentStatus(id string, status models.DocumentStatus) error
	GetDriver(id string) (*models.Driver, error)
	SetDriverActive(id string, active bool) error
}

// AdminHandler handles admin operations
type AdminHandler struct {
	store AdminStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store AdminStore) *AdminHandler {
	return &AdminHandler{
		store: store,
	}
}

// UpdateDocumentStatus sets a document's status, e.g. to suspend or revoke it
func (h *AdminHandler) UpdateDocumentStatus(c *fiber.Ctx) error {
	documentID := c.Params("documentId")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	status := models.DocumentStatus(req.Status)
	if !status.IsKnown() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be one of VALID, EXPIRED, SUSPENDED, REVOKED",
		})
	}

	if err := h.store.UpdateDocumentStatus(documentID, status); err != nil {
		return adminStoreError(c, err, "Document not found", "Failed to update document status")
	}

	doc, err := h.store.GetDocument(documentID)
	if err != nil {
		return adminStoreError(c, err, "Document not found", "Failed to load document")
	}

	log.Printf("Document %s set to %s by %s", documentID, status, middleware.UserID(c))

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Document status updated successfully",
		"document": doc,
	})
}

// DeactivateDriver marks a driver inactive; their documents stop verifying
func (h *AdminHandler) DeactivateDriver(c *fiber.Ctx) error {
	driverID := c.Params("driverId")

	if err := h.store.SetDriverActive(driverID, false); err != nil {
		return adminStoreError(c, err, "Driver not found", "Failed to deactivate driver")
	}

	driver, err := h.store.GetDriver(driverID)
	if err != nil {
		return adminStoreError(c, err, "Driver not found", "Failed to load driver")
	}

	log.Printf("Driver %s deactivated by %s", driverID, middleware.UserID(c))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Driver deactivated successfully",
		"driver":  driver.WithoutDocuments(),
	})
}

func adminStoreError(c *fiber.Ctx, err error, notFound, failed string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFound,
		})
	}
	log.Printf("Admin update failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": failed,
	})
}
