package handlers

import "github.com/gofiber/fiber/v2"

// HealthHandler handles health check requests
type HealthHandler struct {
	Version string
	Storage string
	ping    func() error
}

// NewHealthHandler creates a new health handler. ping may be nil when there
// is no external storage to check.
func NewHealthHandler(version, storage string, ping func() error) *HealthHandler {
	return &HealthHandler{
		Version: version,
		Storage: storage,
		ping:    ping,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK
	if h.ping != nil {
		if err := h.ping(); err != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"service": "Document Verification Backend",
		"version": h.Version,
		"storage": h.Storage,
	})
}
