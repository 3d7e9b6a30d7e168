package services

import (
	"context"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/MUGAIRWA/HACKATHON2/models"
)

// StudentSession bundles the per-student services. Chat history and
// learning state are scoped to one student, so each authenticated user
// gets their own instance set.
type StudentSession struct {
	Assistant *Assistant
	Meals     *MealService
	Learning  *LearningService
	Health    *HealthService
}

// SessionManager hands out StudentSessions keyed by user id, creating
// one lazily on first use.
type SessionManager struct {
	db        *gorm.DB
	generator ContentGenerator
	log       *slog.Logger

	mu       sync.Mutex
	sessions map[string]*StudentSession
}

func NewSessionManager(db *gorm.DB, generator ContentGenerator, log *slog.Logger) *SessionManager {
	return &SessionManager{
		db:        db,
		generator: generator,
		log:       log,
		sessions:  make(map[string]*StudentSession),
	}
}

// Session returns the existing session for userID or builds a new one,
// seeding the assistant with the student's profile when it can be read.
func (m *SessionManager) Session(ctx context.Context, userID string) *StudentSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[userID]; ok {
		return sess
	}

	assistant := NewAssistant(m.generator, m.log)

	var profile models.Profile
	if err := m.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err == nil {
		assistant.SetStudentContext(StudentContext{
			StudentID: profile.ID,
			FullName:  profile.FullName,
			Grade:     profile.Grade,
			School:    profile.School,
		})
	}

	meals := NewMealService(m.db, assistant, m.log)
	meals.SetStudentID(userID)
	learning := NewLearningService(m.db, assistant, m.log)
	learning.SetStudentID(userID)
	health := NewHealthService(m.db, assistant, m.log)
	health.SetStudentID(userID)

	sess := &StudentSession{
		Assistant: assistant,
		Meals:     meals,
		Learning:  learning,
		Health:    health,
	}
	m.sessions[userID] = sess
	return sess
}

// Drop discards a student's session, clearing chat history with it.
func (m *SessionManager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
