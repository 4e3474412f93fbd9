package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Analysis is one answered image analysis, kept for the history endpoints.
type Analysis struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Provider         string         `json:"provider" gorm:"type:text;not null"`
	Model            string         `json:"model" gorm:"type:text;not null"`
	Context          string         `json:"context" gorm:"type:text"`
	ImageSHA256      string         `json:"image_sha256" gorm:"column:image_sha256;type:char(64);not null;index"`
	ImageSize        int            `json:"image_size"`
	MediaType        string         `json:"media_type" gorm:"type:text"`
	Response         string         `json:"response" gorm:"type:text"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	TotalTokens      int            `json:"total_tokens"`
	ExifTags         pq.StringArray `json:"exif_tags" gorm:"type:text[]"`
	ClientDevice     string         `json:"client_device,omitempty" gorm:"type:text"`
	ClientOS         string         `json:"client_os,omitempty" gorm:"column:client_os;type:text"`
	ClientBrowser    string         `json:"client_browser,omitempty" gorm:"type:text"`
	LatencyMs        int64          `json:"latency_ms"`
	Cached           bool           `json:"cached"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (a *Analysis) TableName() string {
	return "analyses"
}
