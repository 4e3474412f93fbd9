package router

import (
	"errors"

	_ "github.com/NeuralTrust/SportLens/docs"
	handlers "github.com/NeuralTrust/SportLens/pkg/handlers/http"
	"github.com/NeuralTrust/SportLens/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
)

const (
	HomePath         = "/"
	VideoPath        = "/api/analyze"
	AnalysesPath     = "/api/v1/analyses"
	AnalysisByIDPath = "/api/v1/analyses/:analysis_id"
	VersionPath      = "/version"
	SwaggerSpecPath  = "/swagger.json"
	DocsPath         = "/docs/*"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	h := r.handlerTransport
	if h.AnalyzeImageHandler == nil || h.AnalyzeVideoHandler == nil || h.HomeHandler == nil {
		return ErrInvalidHandlerTransport
	}

	for _, m := range []middleware.Middleware{
		r.middlewareTransport.RequestIDMiddleware,
		r.middlewareTransport.PanicRecoverMiddleware,
		r.middlewareTransport.CORSMiddleware,
		r.middlewareTransport.MetricsMiddleware,
	} {
		if m != nil {
			router.Use(m.Middleware())
		}
	}

	router.Get(SwaggerSpecPath, func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})
	router.Get(DocsPath, swagger.New(swagger.Config{
		URL: SwaggerSpecPath,
	}))

	if h.GetVersionHandler != nil {
		router.Get(VersionPath, h.GetVersionHandler.Handle)
	}

	router.Get(HomePath, h.HomeHandler.Handle)

	router.Post(HomePath, r.chain(true, true, h.AnalyzeImageHandler.Handle)...)
	router.Post(VideoPath, r.chain(true, true, h.AnalyzeVideoHandler.Handle)...)

	v1 := router.Group("/api/v1", r.chain(true, false)...)
	{
		analyses := v1.Group("/analyses")
		{
			analyses.Post("", r.chain(false, true, h.AnalyzeImageHandler.Handle)...)
			if h.ListAnalysesHandler != nil {
				analyses.Get("", h.ListAnalysesHandler.Handle)
			}
			if h.GetAnalysisHandler != nil {
				analyses.Get("/:analysis_id", h.GetAnalysisHandler.Handle)
			}
		}
	}
	return nil
}

// chain puts auth before the rate limit so rejected tokens do not use up
// the caller's quota.
func (r *apiRouter) chain(auth, limit bool, handlers ...fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(handlers)+2)
	if auth && r.middlewareTransport.AuthMiddleware != nil {
		chain = append(chain, r.middlewareTransport.AuthMiddleware.Middleware())
	}
	if limit && r.middlewareTransport.RateLimitMiddleware != nil {
		chain = append(chain, r.middlewareTransport.RateLimitMiddleware.Middleware())
	}
	return append(chain, handlers...)
}
