package http

import (
	"errors"

	appAnalysis "github.com/NeuralTrust/SportLens/pkg/app/analysis"
	"github.com/NeuralTrust/SportLens/pkg/handlers/http/request"
	"github.com/NeuralTrust/SportLens/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listAnalysesHandler struct {
	logger *logrus.Logger
	finder appAnalysis.Finder
}

func NewListAnalysesHandler(logger *logrus.Logger, finder appAnalysis.Finder) Handler {
	return &listAnalysesHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary List analyses
// @Description Lists stored analyses, newest first
// @Tags Analyses
// @Produce json
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.ListAnalysesOutput
// @Failure 400 {object} map[string]interface{} "Invalid query"
// @Failure 503 {object} map[string]interface{} "History is disabled"
// @Router /api/v1/analyses [get]
func (h *listAnalysesHandler) Handle(c *fiber.Ctx) error {
	var req request.ListAnalysesRequest
	if err := c.QueryParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := req.Validate(); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	list, err := h.finder.List(c.UserContext(), req.Limit, req.Offset)
	if err != nil {
		if errors.Is(err, appAnalysis.ErrHistoryDisabled) {
			return errorResponse(c, fiber.StatusServiceUnavailable, ErrMsgHistoryDisabled)
		}
		h.logger.WithError(err).Error("failed to list analyses")
		return errorResponse(c, fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.Status(fiber.StatusOK).JSON(response.NewListAnalysesOutput(list, req.Limit, req.Offset))
}
