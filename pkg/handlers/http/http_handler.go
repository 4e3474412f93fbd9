package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Page
	HomeHandler Handler

	// Analysis
	AnalyzeImageHandler Handler
	AnalyzeVideoHandler Handler
	GetAnalysisHandler  Handler
	ListAnalysesHandler Handler

	// Version
	GetVersionHandler Handler
}
