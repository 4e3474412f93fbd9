package providers

import "errors"

var (
	ErrAPIKeyRequired      = errors.New("API key is required")
	ErrModelRequired       = errors.New("model is required")
	ErrNoCompletion        = errors.New("no completions returned")
	ErrEmptyImage          = errors.New("image data is empty")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
