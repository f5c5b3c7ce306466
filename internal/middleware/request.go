package middleware

import "github.com/gofiber/fiber/v2"

// RequestMeta is the caller metadata written to the audit log
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Meta extracts the client address and user agent
func Meta(c *fiber.Ctx) RequestMeta {
	return RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}
