package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/config"
	handlers "github.com/NeuralTrust/SportLens/pkg/handlers/http"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/NeuralTrust/SportLens/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okHandler struct{}

func (okHandler) Handle(c *fiber.Ctx) error { return c.SendString("ok") }

func testServer(t *testing.T, maxUploadMB int) *APIServer {
	t.Helper()
	return testServerWithVideo(t, maxUploadMB, okHandler{})
}

func testServerWithVideo(t *testing.T, maxUploadMB int, video handlers.Handler) *APIServer {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{}
	cfg.Server.MaxUploadMB = maxUploadMB
	cfg.Analysis.Timeout = time.Second
	return NewAPIServer(APIServerDI{
		Config: cfg,
		Logger: logger,
		MiddlewareTransport: middleware.Transport{
			RequestIDMiddleware:    middleware.NewRequestIDMiddleware(),
			PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
			CORSMiddleware:         middleware.NewCORSMiddleware([]string{"http://localhost:3000"}, []string{"POST", "GET", "OPTIONS"}, false, nil, ""),
		},
		HandlerTransport: handlers.HandlerTransport{
			HomeHandler:         okHandler{},
			AnalyzeImageHandler: okHandler{},
			AnalyzeVideoHandler: video,
		},
	})
}

func TestAPIServer_Health(t *testing.T) {
	s := testServer(t, 10)
	for _, path := range []string{HealthPath, PingPath} {
		resp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Empty(t, resp.Header.Get("X-Request-Id"), path)
	}
}

type videoSizeHandler struct{}

func (videoSizeHandler) Handle(c *fiber.Ctx) error {
	fh, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"size": fh.Size})
}

func TestAPIServer_VideoLargerThanImageCapReachesHandler(t *testing.T) {
	s := testServerWithVideo(t, 10, videoSizeHandler{})

	video := bytes.Repeat([]byte{0x42}, 11<<20)
	body, contentType, err := httpx.BuildMultipart(
		[]httpx.FilePart{{FieldName: "video", FileName: "rally.mp4", ContentType: "video/mp4", Data: video}},
		nil,
	)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)

	resp, err := s.Router.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Size int64 `json:"size"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, int64(len(video)), out.Size)
}

func TestNewBaseServer_BodyLimitFitsVideoUploads(t *testing.T) {
	s := testServer(t, 10)
	assert.Equal(t, 512<<20, s.Router.Config().BodyLimit)
}

func TestAPIServer_PreflightOnAnyPath(t *testing.T) {
	s := testServer(t, 10)
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := s.Router.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestAPIServer_UnknownRouteIsJSON(t *testing.T) {
	s := testServer(t, 10)
	resp, err := s.Router.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}
