package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	handlers "github.com/NeuralTrust/SportLens/pkg/handlers/http"
	"github.com/NeuralTrust/SportLens/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler string

func (s stubHandler) Handle(c *fiber.Ctx) error {
	return c.SendString(string(s))
}

type denyAll struct{}

func (denyAll) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
}

func transport() handlers.HandlerTransport {
	return handlers.HandlerTransport{
		HomeHandler:         stubHandler("home"),
		AnalyzeImageHandler: stubHandler("image"),
		AnalyzeVideoHandler: stubHandler("video"),
		GetAnalysisHandler:  stubHandler("get"),
		ListAnalysesHandler: stubHandler("list"),
		GetVersionHandler:   stubHandler("version"),
	}
}

func call(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAPIRouter_Routes(t *testing.T) {
	app := fiber.New()
	require.NoError(t, NewAPIRouter(&middleware.Transport{}, transport()).BuildRoutes(app))

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/", "home"},
		{http.MethodPost, "/", "image"},
		{http.MethodPost, "/api/v1/analyses", "image"},
		{http.MethodPost, "/api/analyze", "video"},
		{http.MethodGet, "/api/v1/analyses", "list"},
		{http.MethodGet, "/api/v1/analyses/abc", "get"},
		{http.MethodGet, "/version", "version"},
	}
	for _, tt := range tests {
		status, body := call(t, app, tt.method, tt.path)
		assert.Equal(t, fiber.StatusOK, status, tt.method+" "+tt.path)
		assert.Equal(t, tt.want, body, tt.method+" "+tt.path)
	}
}

func TestAPIRouter_AuthProtectsAnalysisRoutesOnly(t *testing.T) {
	app := fiber.New()
	mt := &middleware.Transport{AuthMiddleware: denyAll{}}
	require.NoError(t, NewAPIRouter(mt, transport()).BuildRoutes(app))

	status, _ := call(t, app, http.MethodGet, "/")
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/version")
	assert.Equal(t, fiber.StatusOK, status)

	for _, r := range [][2]string{
		{http.MethodPost, "/"},
		{http.MethodPost, "/api/analyze"},
		{http.MethodPost, "/api/v1/analyses"},
		{http.MethodGet, "/api/v1/analyses"},
	} {
		status, _ = call(t, app, r[0], r[1])
		assert.Equal(t, fiber.StatusUnauthorized, status, r[0]+" "+r[1])
	}
}

func TestAPIRouter_InvalidTransport(t *testing.T) {
	err := NewAPIRouter(&middleware.Transport{}, handlers.HandlerTransport{}).BuildRoutes(fiber.New())
	assert.ErrorIs(t, err, ErrInvalidHandlerTransport)
}

func TestAPIRouter_SwaggerSpec(t *testing.T) {
	app := fiber.New()
	require.NoError(t, NewAPIRouter(&middleware.Transport{}, transport()).BuildRoutes(app))

	status, body := call(t, app, http.MethodGet, SwaggerSpecPath)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"/api/v1/analyses/{analysis_id}"`)
	assert.Contains(t, body, `"title": "SportLens API"`)
}

type throttleAll struct{}

func (throttleAll) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTooManyRequests)
	}
}

func TestAPIRouter_RateLimitGuardsAnalysisPostsOnly(t *testing.T) {
	app := fiber.New()
	mt := &middleware.Transport{RateLimitMiddleware: throttleAll{}}
	require.NoError(t, NewAPIRouter(mt, transport()).BuildRoutes(app))

	for _, r := range [][2]string{
		{http.MethodPost, "/"},
		{http.MethodPost, "/api/analyze"},
		{http.MethodPost, "/api/v1/analyses"},
	} {
		status, _ := call(t, app, r[0], r[1])
		assert.Equal(t, fiber.StatusTooManyRequests, status, r[0]+" "+r[1])
	}

	status, body := call(t, app, http.MethodGet, "/api/v1/analyses")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "list", body)
}

func TestRouterFunc(t *testing.T) {
	app := fiber.New()
	var r ServerRouter = RouterFunc(func(app *fiber.App) error {
		app.Get("/ready", func(c *fiber.Ctx) error { return c.SendString("ready") })
		return nil
	})
	require.NoError(t, r.BuildRoutes(app))

	status, body := call(t, app, http.MethodGet, "/ready")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body)
}
