package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Severity labels derived from the assistant's assessment text.
const (
	SeverityMild      = "mild"
	SeverityModerate  = "moderate"
	SeveritySevere    = "severe"
	SeverityEmergency = "emergency"
)

// HealthRecord is an append-only symptom report per student. Rows are
// never updated or auto-deleted once written.
type HealthRecord struct {
	ID                         string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID                  string    `gorm:"type:uuid;index;not null" json:"student_id"`
	Symptoms                   string    `gorm:"type:text" json:"symptoms"`
	Severity                   string    `gorm:"size:16" json:"severity"`
	DurationDays               int       `json:"duration_days"`
	Notes                      string    `gorm:"type:text" json:"notes,omitempty"`
	AISuggestions              string    `gorm:"type:text" json:"ai_suggestions"`
	ProfessionalRecommendation string    `gorm:"type:text" json:"professional_recommendation"`
	ReportedAt                 time.Time `gorm:"index" json:"reported_at"`
}

func (h *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
