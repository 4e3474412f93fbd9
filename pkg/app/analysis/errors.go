package analysis

import "errors"

var (
	ErrServiceUnavailable = errors.New("analysis service unavailable")
	ErrHistoryDisabled    = errors.New("history is disabled")
	ErrEmptyImage         = errors.New("image is empty")
)
