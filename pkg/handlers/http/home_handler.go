package http

import (
	"github.com/NeuralTrust/SportLens/web"
	"github.com/gofiber/fiber/v2"
)

type homeHandler struct{}

func NewHomeHandler() Handler {
	return &homeHandler{}
}

// Handle serves the upload page.
func (h *homeHandler) Handle(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(web.IndexHTML)
}
