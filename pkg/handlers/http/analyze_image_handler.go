package http

import (
	"errors"
	"io"

	appAnalysis "github.com/NeuralTrust/SportLens/pkg/app/analysis"
	"github.com/NeuralTrust/SportLens/pkg/common"
	"github.com/NeuralTrust/SportLens/pkg/handlers/http/response"
	"github.com/NeuralTrust/SportLens/pkg/infra/imagemeta"
	"github.com/NeuralTrust/SportLens/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type analyzeImageHandler struct {
	logger   *logrus.Logger
	service  appAnalysis.Service
	maxBytes int64
}

// NewAnalyzeImageHandler rejects image parts larger than maxBytes. The
// server body limit is sized for video uploads, so the image cap lives here.
func NewAnalyzeImageHandler(logger *logrus.Logger, service appAnalysis.Service, maxBytes int64) Handler {
	return &analyzeImageHandler{
		logger:   logger,
		service:  service,
		maxBytes: maxBytes,
	}
}

// Handle @Summary Analyze an image
// @Description Forwards an image and its context to the vision provider and returns the analysis text
// @Tags Analyses
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Param context-ai formData string false "Free-text context for the analysis"
// @Success 200 {object} response.AnalyzeImageOutput
// @Failure 400 {object} map[string]interface{} "Missing or invalid image"
// @Failure 413 {object} map[string]interface{} "Image exceeds the upload limit"
// @Failure 500 {object} map[string]interface{} "Provider failure"
// @Failure 503 {object} map[string]interface{} "Provider circuit open"
// @Router / [post]
// @Router /api/v1/analyses [post]
func (h *analyzeImageHandler) Handle(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		h.logger.WithError(err).Debug("failed to parse multipart form")
		return errorResponse(c, fiber.StatusBadRequest, ErrMsgParseForm)
	}

	files := form.File[common.ImageFormField]
	if len(files) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, ErrMsgRetrieveFile)
	}
	fileHeader := files[0]
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		h.logger.WithFields(logrus.Fields{
			"file": fileHeader.Filename,
			"size": fileHeader.Size,
		}).Info("rejected oversized image")
		return errorResponse(c, fiber.StatusRequestEntityTooLarge, ErrMsgImageTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open uploaded image")
		return errorResponse(c, fiber.StatusInternalServerError, ErrMsgReadFile)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.WithError(err).Error("failed to read uploaded image")
		return errorResponse(c, fiber.StatusInternalServerError, ErrMsgReadFile)
	}

	if _, err := imagemeta.DetectMediaType(data); err != nil {
		h.logger.WithError(err).WithField("file", fileHeader.Filename).Info("rejected upload")
		return errorResponse(c, fiber.StatusBadRequest, ErrMsgInvalidImage)
	}

	var contextText string
	if values := form.Value[common.ContextFormField]; len(values) > 0 {
		contextText = values[0]
	}

	requestID, _ := c.Locals(common.RequestIDContextKey).(string)
	result, err := h.service.Analyze(c.UserContext(), &appAnalysis.Request{
		Image:     data,
		FileName:  fileHeader.Filename,
		Context:   contextText,
		RequestID: requestID,
		Client:    utils.ParseUserAgent(c.Get(fiber.HeaderUserAgent), c.Get(fiber.HeaderAcceptLanguage)),
	})
	if err != nil {
		switch {
		case errors.Is(err, imagemeta.ErrUnsupportedMediaType):
			return errorResponse(c, fiber.StatusBadRequest, ErrMsgInvalidImage)
		case errors.Is(err, appAnalysis.ErrServiceUnavailable):
			h.logger.WithError(err).Warn("analysis provider unavailable")
			return errorResponse(c, fiber.StatusServiceUnavailable, ErrMsgServiceUnavailable)
		default:
			h.logger.WithError(err).WithFields(logrus.Fields{
				"file":       fileHeader.Filename,
				"size":       len(data),
				"request_id": requestID,
			}).Error("failed to analyze image")
			return errorResponse(c, fiber.StatusInternalServerError, ErrMsgProcessImage)
		}
	}

	return c.Status(fiber.StatusOK).JSON(response.AnalyzeImageOutput{
		APIResponse: result.Response,
		AnalysisID:  result.ID.String(),
		Provider:    result.Provider,
		Model:       result.Model,
		Cached:      result.Cached,
		Metadata:    result.Metadata,
	})
}
