package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/config"
	"github.com/NeuralTrust/SportLens/pkg/infra/prometheus"
	"github.com/NeuralTrust/SportLens/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	HealthPath = "/health"
	PingPath   = "/__/ping"
)

// Server interface defines the common behavior for all servers
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

type BaseServer struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Router     *fiber.App
	metricsApp *fiber.App
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		EnablePrintRoutes:     false,
		BodyLimit:             cfg.RequestBodyLimit(),
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          cfg.Analysis.Timeout + 30*time.Second,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          jsonErrorHandler,
	})

	r.Server().NoDefaultServerHeader = true

	return &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
	}
}

// jsonErrorHandler keeps framework errors (413, 404, 405) in the same
// {"error": ...} shape as the handlers.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

// healthRouter answers liveness probes ahead of the API middleware, so
// probes are neither traced nor rate limited.
func healthRouter() router.ServerRouter {
	return router.RouterFunc(func(app *fiber.App) error {
		app.Get(HealthPath, func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		app.Get(PingPath, func(ctx *fiber.Ctx) error {
			return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
				"message": "pong",
			})
		})
		return nil
	})
}

func (s *BaseServer) WithRouters(routers ...router.ServerRouter) *BaseServer {
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			s.Logger.WithError(err).Error("failed to build routes")
		}
	}
	return s
}

func (s *BaseServer) setupMetricsEndpoint() {
	if !s.Config.Metrics.Enabled {
		s.Logger.Info("prometheus metrics are disabled by configuration")
		return
	}
	if s.metricsApp != nil {
		return
	}

	metricsApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	metricsApp.Use(recover.New())

	handler := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	metricsApp.Get("/metrics", func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})
	s.metricsApp = metricsApp

	addr := fmt.Sprintf(":%d", s.Config.Server.MetricsPort)
	go func() {
		s.Logger.WithField("addr", addr).Info("starting metrics server")
		if err := metricsApp.Listen(addr); err != nil && !errors.Is(err, net.ErrClosed) {
			s.Logger.WithError(err).Error("failed to start metrics server")
		}
	}()
}

func (s *BaseServer) shutdown(ctx context.Context) error {
	var errs []error
	if s.metricsApp != nil {
		if err := s.metricsApp.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server: %w", err))
		}
	}
	if err := s.Router.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api server: %w", err))
	}
	return errors.Join(errs...)
}
