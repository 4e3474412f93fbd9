package middleware

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/common"
	"github.com/NeuralTrust/SportLens/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{
		logger: logger,
	}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		c.Locals(common.LatencyContextKey, startTime)

		err := c.Next()

		elapsed := time.Since(startTime)
		statusCode := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				statusCode = fe.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}
		route := routePattern(c)

		prometheus.RequestTotal.WithLabelValues(route, c.Method(), statusClass(statusCode)).Inc()
		if prometheus.Config.EnableLatency {
			prometheus.RequestLatency.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))
		}

		m.logger.WithFields(logrus.Fields{
			"method":     c.Method(),
			"route":      route,
			"status":     statusCode,
			"latency_ms": elapsed.Milliseconds(),
		}).Debug("request served")
		return err
	}
}

// routePattern keeps label cardinality bounded: /api/v1/analyses/:analysis_id,
// never the concrete id.
func routePattern(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return "unmatched"
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
