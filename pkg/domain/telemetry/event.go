package telemetry

const (
	EventAnalysisCompleted = "analysis.completed"
	EventAnalysisFailed    = "analysis.failed"
	EventVideoForwarded    = "video.forwarded"
)

// Event is what exporters publish. Image bytes and model output never go
// into an event; only identifiers, sizes and timings do.
type Event struct {
	Type             string   `json:"type"`
	AnalysisID       string   `json:"analysis_id,omitempty"`
	RequestID        string   `json:"request_id,omitempty"`
	Provider         string   `json:"provider,omitempty"`
	Model            string   `json:"model,omitempty"`
	ImageSHA256      string   `json:"image_sha256,omitempty"`
	ImageSize        int      `json:"image_size,omitempty"`
	MediaType        string   `json:"media_type,omitempty"`
	PromptTokens     int      `json:"prompt_tokens,omitempty"`
	CompletionTokens int      `json:"completion_tokens,omitempty"`
	TotalTokens      int      `json:"total_tokens,omitempty"`
	ExifTags         []string `json:"exif_tags,omitempty"`
	Cached           bool     `json:"cached"`
	Error            string   `json:"error,omitempty"`
	StatusCode       int      `json:"status_code,omitempty"`
	Device           string   `json:"device,omitempty"`
	Os               string   `json:"os,omitempty"`
	Browser          string   `json:"browser,omitempty"`
	Latency          int64    `json:"latency_ms"`
	Timestamp        int64    `json:"timestamp"`
}
