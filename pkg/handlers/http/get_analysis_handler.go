package http

import (
	"errors"

	appAnalysis "github.com/NeuralTrust/SportLens/pkg/app/analysis"
	"github.com/NeuralTrust/SportLens/pkg/domain"
	"github.com/NeuralTrust/SportLens/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type getAnalysisHandler struct {
	logger *logrus.Logger
	finder appAnalysis.Finder
}

func NewGetAnalysisHandler(logger *logrus.Logger, finder appAnalysis.Finder) Handler {
	return &getAnalysisHandler{
		logger: logger,
		finder: finder,
	}
}

// Handle @Summary Retrieve an analysis by ID
// @Description Returns one stored image analysis
// @Tags Analyses
// @Produce json
// @Param analysis_id path string true "Analysis ID"
// @Success 200 {object} response.AnalysisOutput
// @Failure 400 {object} map[string]interface{} "Invalid analysis id"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Failure 503 {object} map[string]interface{} "History is disabled"
// @Router /api/v1/analyses/{analysis_id} [get]
func (h *getAnalysisHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("analysis_id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, ErrMsgInvalidAnalysisID)
	}

	a, err := h.finder.Find(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, appAnalysis.ErrHistoryDisabled):
			return errorResponse(c, fiber.StatusServiceUnavailable, ErrMsgHistoryDisabled)
		case domain.IsNotFoundError(err):
			return errorResponse(c, fiber.StatusNotFound, ErrMsgAnalysisNotFound)
		default:
			h.logger.WithError(err).WithField("analysis_id", id).Error("failed to get analysis")
			return errorResponse(c, fiber.StatusInternalServerError, ErrMsgInternal)
		}
	}
	return c.Status(fiber.StatusOK).JSON(response.NewAnalysisOutput(a))
}
