package middleware

import (
	"runtime/debug"

	"github.com/NeuralTrust/SportLens/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type panicRecoverMiddleware struct {
	logger *logrus.Logger
}

func NewPanicRecoverMiddleware(logger *logrus.Logger) Middleware {
	return &panicRecoverMiddleware{logger: logger}
}

func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestID, _ := c.Locals(common.RequestIDContextKey).(string)
			m.logger.WithFields(logrus.Fields{
				"panic":      r,
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
				"stack":      string(debug.Stack()),
			}).Error("HTTP server panic recovered")

			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}()

		return c.Next()
	}
}
