package http

import (
	"io"

	"github.com/NeuralTrust/SportLens/pkg/app/video"
	"github.com/NeuralTrust/SportLens/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type analyzeVideoHandler struct {
	logger    *logrus.Logger
	forwarder video.Forwarder
}

func NewAnalyzeVideoHandler(logger *logrus.Logger, forwarder video.Forwarder) Handler {
	return &analyzeVideoHandler{
		logger:    logger,
		forwarder: forwarder,
	}
}

// Handle @Summary Forward a video
// @Description Forwards the uploaded video to the video analysis backend and relays its JSON answer
// @Tags Analyses
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Video file"
// @Success 200 {object} map[string]interface{} "Backend answer, unchanged"
// @Failure 400 {object} map[string]interface{} "No video file provided"
// @Failure 500 {object} map[string]interface{} "Error processing video"
// @Router /api/analyze [post]
func (h *analyzeVideoHandler) Handle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(common.VideoFormField)
	if err != nil || fileHeader == nil {
		return errorResponse(c, fiber.StatusBadRequest, ErrMsgNoVideo)
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open uploaded video")
		return errorResponse(c, fiber.StatusInternalServerError, ErrMsgProcessVideo)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.WithError(err).Error("failed to read uploaded video")
		return errorResponse(c, fiber.StatusInternalServerError, ErrMsgProcessVideo)
	}

	requestID, _ := c.Locals(common.RequestIDContextKey).(string)
	body, err := h.forwarder.Forward(c.UserContext(), &video.Input{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
		RequestID:   requestID,
	})
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"file":       fileHeader.Filename,
			"size":       len(data),
			"request_id": requestID,
		}).Error("error forwarding video")
		return errorResponse(c, fiber.StatusInternalServerError, ErrMsgProcessVideo)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(body)
}
