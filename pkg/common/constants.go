package common

import "time"

const (
	AnalysisCacheTTL = 1 * time.Hour

	RequestIDHeader = "X-Request-Id"

	ImageFormField   = "image"
	ContextFormField = "context-ai"
	VideoFormField   = "video"
)
