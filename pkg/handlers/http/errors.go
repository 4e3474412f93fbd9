package http

import "github.com/gofiber/fiber/v2"

// Messages returned to clients. They are part of the public contract.
const (
	ErrMsgParseForm          = "Unable to parse form"
	ErrMsgRetrieveFile       = "Error retrieving file"
	ErrMsgReadFile           = "Error reading file"
	ErrMsgInvalidImage       = "Please upload a valid image file"
	ErrMsgImageTooLarge      = "Image exceeds the upload limit"
	ErrMsgProcessImage       = "Error processing image"
	ErrMsgServiceUnavailable = "Analysis service unavailable"
	ErrMsgNoVideo            = "No video file provided"
	ErrMsgProcessVideo       = "Error processing video"
	ErrMsgInvalidAnalysisID  = "invalid analysis id"
	ErrMsgAnalysisNotFound   = "analysis not found"
	ErrMsgHistoryDisabled    = "history is disabled"
	ErrMsgInternal           = "Internal server error"
)

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
