package response

import (
	"time"

	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/NeuralTrust/SportLens/pkg/infra/imagemeta"
)

// AnalyzeImageOutput keeps api_response first; older clients read only that.
type AnalyzeImageOutput struct {
	APIResponse string              `json:"api_response"`
	AnalysisID  string              `json:"analysis_id"`
	Provider    string              `json:"provider"`
	Model       string              `json:"model"`
	Cached      bool                `json:"cached"`
	Metadata    *imagemeta.Metadata `json:"metadata,omitempty"`
}

type AnalysisOutput struct {
	ID               string    `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Context          string    `json:"context"`
	ImageSHA256      string    `json:"image_sha256"`
	ImageSize        int       `json:"image_size"`
	MediaType        string    `json:"media_type"`
	Response         string    `json:"response"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	ExifTags         []string  `json:"exif_tags"`
	ClientDevice     string    `json:"client_device,omitempty"`
	ClientOS         string    `json:"client_os,omitempty"`
	ClientBrowser    string    `json:"client_browser,omitempty"`
	LatencyMs        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

type ListAnalysesOutput struct {
	Items  []AnalysisOutput `json:"items"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Count  int              `json:"count"`
}

func NewAnalysisOutput(a *analysis.Analysis) AnalysisOutput {
	tags := []string(a.ExifTags)
	if tags == nil {
		tags = []string{}
	}
	return AnalysisOutput{
		ID:               a.ID.String(),
		Provider:         a.Provider,
		Model:            a.Model,
		Context:          a.Context,
		ImageSHA256:      a.ImageSHA256,
		ImageSize:        a.ImageSize,
		MediaType:        a.MediaType,
		Response:         a.Response,
		PromptTokens:     a.PromptTokens,
		CompletionTokens: a.CompletionTokens,
		TotalTokens:      a.TotalTokens,
		ExifTags:         tags,
		ClientDevice:     a.ClientDevice,
		ClientOS:         a.ClientOS,
		ClientBrowser:    a.ClientBrowser,
		LatencyMs:        a.LatencyMs,
		CreatedAt:        a.CreatedAt,
	}
}

func NewListAnalysesOutput(list []*analysis.Analysis, limit, offset int) ListAnalysesOutput {
	items := make([]AnalysisOutput, 0, len(list))
	for _, a := range list {
		items = append(items, NewAnalysisOutput(a))
	}
	return ListAnalysesOutput{
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Count:  len(items),
	}
}
