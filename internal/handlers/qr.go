package handlers

import (
	"errors"
	"log"

	"github.com/Ananth-NQI/docverify-backend/internal/middleware"
	"github.com/Ananth-NQI/docverify-backend/internal/services"
	"github.com/Ananth-NQI/docverify-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// QRHandler handles QR issuance for drivers and QR scans by officers
type QRHandler struct {
	qr     *services.QRCodeService
	engine *services.VerificationEngine
}

// NewQRHandler creates a new QR handler
func NewQRHandler(qr *services.QRCodeService, engine *services.VerificationEngine) *QRHandler {
	return &QRHandler{
		qr:     qr,
		engine: engine,
	}
}

// GetMyQRCode issues a QR code for the authenticated driver's primary document
func (h *QRHandler) GetMyQRCode(c *fiber.Ctx) error {
	issued, err := h.qr.IssueForDriver(middleware.UserID(c))
	if err != nil {
		return issueError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "QR code generated",
		"qrCodeDataURL": issued.DataURL,
		"documentId":    issued.DocumentID,
		"issuedAt":      issued.IssuedAt,
		"expiresIn":     int(issued.ValidFor.Seconds()),
	})
}

// GetDocumentQRCode issues a QR code for one of the driver's documents
func (h *QRHandler) GetDocumentQRCode(c *fiber.Ctx) error {
	documentID := c.Params("documentId")
	if documentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Document ID is required",
		})
	}

	issued, err := h.qr.IssueForDocument(middleware.UserID(c), documentID)
	if err != nil {
		return issueError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "QR code generated",
		"qrCodeDataURL": issued.DataURL,
		"documentId":    issued.DocumentID,
		"issuedAt":      issued.IssuedAt,
		"expiresIn":     int(issued.ValidFor.Seconds()),
	})
}

// VerifyQRCode classifies a scanned QR payload
func (h *QRHandler) VerifyQRCode(c *fiber.Ctx) error {
	var req struct {
		QRCodeData string `json:"qrCodeData"`
		Location   string `json:"location"`
		Notes      string `json:"notes"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.QRCodeData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "QR code data is required",
		})
	}

	out, err := h.engine.Verify(req.QRCodeData, verifyContext(c, req.Location, req.Notes))
	if err != nil {
		log.Printf("QR code verification error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Verification failed",
		})
	}
	return c.JSON(out)
}

func issueError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoPrimaryDocument):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No primary document found for this driver",
		})
	case errors.Is(err, storage.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	case errors.Is(err, services.ErrDocumentNotOwned):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Document does not belong to this driver",
		})
	}
	log.Printf("Failed to generate QR code: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to generate QR code",
	})
}

func verifyContext(c *fiber.Ctx, location, notes string) services.VerifyContext {
	meta := middleware.Meta(c)
	return services.VerifyContext{
		OfficerID: middleware.UserID(c),
		Location:  location,
		Notes:     notes,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
}
