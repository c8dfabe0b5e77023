package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusCompleted AnalysisStatus = "completed"
	StatusFailed    AnalysisStatus = "failed"
)

// AnalysisRecord is one row of the audit log. It deliberately has no
// column for resume text, job description or verdict body.
type AnalysisRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalFileName string         `gorm:"type:text" json:"original_filename"`
	Status           AnalysisStatus `gorm:"not null" json:"status"`
	ErrorKind        *string        `gorm:"type:text" json:"error_kind,omitempty"`
	MatchPercentage  *int           `json:"match_percentage,omitempty"`
	DurationMs       int64          `json:"duration_ms"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analyses"
}
