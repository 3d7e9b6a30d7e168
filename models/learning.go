package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizSession is the persisted result of one taken quiz. The quiz itself
// is generated on demand and never stored.
type QuizSession struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID      string    `gorm:"type:uuid;index;not null" json:"student_id"`
	Subject        string    `gorm:"size:64" json:"subject"`
	Topic          string    `gorm:"size:128" json:"topic"`
	Difficulty     string    `gorm:"size:16" json:"difficulty"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	Score          float64   `json:"score"`
	TimeTakenMins  int       `json:"time_taken_minutes"`
	CompletedAt    time.Time `gorm:"index" json:"completed_at"`
}

func (q *QuizSession) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// LearningProgress is the incremental aggregate per (student, subject,
// topic), folded forward on every saved quiz result.
type LearningProgress struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID        string    `gorm:"type:uuid;index:idx_progress_key,unique;not null" json:"student_id"`
	Subject          string    `gorm:"size:64;index:idx_progress_key,unique" json:"subject"`
	Topic            string    `gorm:"size:128;index:idx_progress_key,unique" json:"topic"`
	ProficiencyLevel int       `json:"proficiency_level"`
	CompletedLessons int       `json:"completed_lessons"`
	TotalQuizzes     int       `json:"total_quizzes"`
	AverageScore     float64   `json:"average_score"`
	LastActivity     time.Time `json:"last_activity"`
}

func (p *LearningProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
