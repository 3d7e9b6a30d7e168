package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MUGAIRWA/HACKATHON2/models"

	"gorm.io/gorm"
)

// professionalRecommendation is attached to every assessment verbatim.
const professionalRecommendation = "IMPORTANT: This is not medical advice. Please consult a qualified healthcare professional for proper diagnosis and treatment. If symptoms are severe or worsening, seek immediate medical attention."

// SymptomAssessment is the structured reading of an assistant response.
type SymptomAssessment struct {
	Severity                   string `json:"severity"`
	AISuggestions              string `json:"ai_suggestions"`
	ProfessionalRecommendation string `json:"professional_recommendation"`
}

// EmergencyAssessment is deliberately coarse: it decides whether to tell
// a student to call for help right now.
type EmergencyAssessment struct {
	IsEmergency bool   `json:"is_emergency"`
	Urgency     string `json:"urgency"` // "immediate" | "urgent" | "routine"
	Action      string `json:"action"`
}

type HealthService struct {
	db        *gorm.DB
	assistant *Assistant
	log       *slog.Logger
	studentID string
}

func NewHealthService(db *gorm.DB, assistant *Assistant, log *slog.Logger) *HealthService {
	return &HealthService{db: db, assistant: assistant, log: log.With("component", "health_service")}
}

func (s *HealthService) SetStudentID(studentID string) {
	s.studentID = studentID
}

// ExtractSeverity reads a severity label out of free assessment text.
// Keyword containment, case-insensitive, most serious label wins.
func ExtractSeverity(response string) string {
	lower := strings.ToLower(response)
	switch {
	case strings.Contains(lower, "emergency") || strings.Contains(lower, "immediate"):
		return models.SeverityEmergency
	case strings.Contains(lower, "severe"):
		return models.SeveritySevere
	case strings.Contains(lower, "moderate"):
		return models.SeverityModerate
	default:
		return models.SeverityMild
	}
}

func extractSuggestions(response string) string {
	var lines []string
	for _, line := range strings.Split(response, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "suggestion") || strings.Contains(lower, "recommend") || strings.Contains(lower, "try") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return "Please consult a healthcare professional for personalized advice."
	}
	return strings.Join(lines, "\n")
}

// AssessSymptoms asks for an assessment and derives the severity label
// from the response text.
func (s *HealthService) AssessSymptoms(ctx context.Context, symptoms string, durationDays int, notes string) (*SymptomAssessment, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}

	prompt := fmt.Sprintf(`You are a health assessment AI. A student reports the following symptoms:

Symptoms: %s
Duration: %d days
Additional Notes: %s

Please provide:
1. Severity assessment (mild/moderate/severe/emergency)
2. General health suggestions (NOT medical diagnosis)
3. Clear recommendation to see a healthcare professional

IMPORTANT: Emphasize that this is NOT medical advice and they should consult a doctor.
Be supportive but cautious in your recommendations.`, symptoms, durationDays, notes)

	response := s.assistant.SendMessage(ctx, prompt)

	return &SymptomAssessment{
		Severity:                   ExtractSeverity(response),
		AISuggestions:              extractSuggestions(response),
		ProfessionalRecommendation: professionalRecommendation,
	}, nil
}

// SaveHealthRecord appends to the student's health history. Records are
// never updated or deleted.
func (s *HealthService) SaveHealthRecord(ctx context.Context, symptoms string, severity string, durationDays int, notes, aiSuggestions string) (*models.HealthRecord, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}

	record := &models.HealthRecord{
		StudentID:                  s.studentID,
		Symptoms:                   symptoms,
		Severity:                   severity,
		DurationDays:               durationDays,
		Notes:                      notes,
		AISuggestions:              aiSuggestions,
		ProfessionalRecommendation: professionalRecommendation,
		ReportedAt:                 time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to save health record: %w", err)
	}
	return record, nil
}

func (s *HealthService) HealthHistory(ctx context.Context) ([]models.HealthRecord, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	var records []models.HealthRecord
	err := s.db.WithContext(ctx).
		Where("student_id = ?", s.studentID).
		Order("reported_at DESC").
		Find(&records).Error
	return records, err
}

// AssessEmergencyText turns a raw response into an emergency verdict.
// Exported for the fail-safe contract: any failure upstream of this call
// must yield isEmergency=true, never a guess at "fine".
func AssessEmergencyText(response string) EmergencyAssessment {
	lower := strings.ToLower(response)

	isEmergency := strings.Contains(lower, "yes") || strings.Contains(lower, "emergency")

	urgency := "routine"
	if strings.Contains(lower, "immediate") {
		urgency = "immediate"
	} else if strings.Contains(lower, "urgent") {
		urgency = "urgent"
	}

	action := "Contact a healthcare provider as soon as possible"
	if isEmergency {
		action = "CALL EMERGENCY SERVICES (911 or local emergency number) IMMEDIATELY"
	}

	return EmergencyAssessment{IsEmergency: isEmergency, Urgency: urgency, Action: action}
}

// emergencyFailSafe is the conservative default when assessment itself
// fails. Physical safety is the one place failure must not degrade to a
// generic answer.
func emergencyFailSafe() EmergencyAssessment {
	return EmergencyAssessment{
		IsEmergency: true,
		Urgency:     "immediate",
		Action:      "CALL EMERGENCY SERVICES IMMEDIATELY",
	}
}

// AssessEmergency decides whether reported symptoms need help right now.
func (s *HealthService) AssessEmergency(ctx context.Context, symptoms string) EmergencyAssessment {
	if strings.TrimSpace(symptoms) == "" {
		return emergencyFailSafe()
	}

	prompt := fmt.Sprintf(`EMERGENCY ASSESSMENT: Student reports: %q

Determine if this requires immediate medical attention.

Respond with:
1. Is this an emergency? (yes/no)
2. Urgency level (immediate/urgent/routine)
3. Recommended action

Be conservative - when in doubt, recommend seeking medical help.`, symptoms)

	response := s.assistant.SendMessage(ctx, prompt)

	// SendMessage degrades to canned text rather than erroring; the
	// general fallback carries no assessment signal, so treat it as a
	// failed assessment and stay conservative.
	if response == fallbackGeneral || response == fallbackStudy || response == fallbackMeal {
		s.log.WarnContext(ctx, "emergency assessment fell back, defaulting to emergency")
		return emergencyFailSafe()
	}

	return AssessEmergencyText(response)
}

var defaultHealthTips = []string{
	"Drink at least 8 glasses of water daily",
	"Get 7-9 hours of sleep each night",
	"Take short breaks during study sessions",
	"Eat balanced meals with fruits and vegetables",
	"Practice deep breathing for stress relief",
}

func (s *HealthService) HealthTips(ctx context.Context, category string) []string {
	categoryPrompt := ""
	if category != "" {
		categoryPrompt = fmt.Sprintf(" for %s", category)
	}
	prompt := fmt.Sprintf(`Provide 5 practical health tips%s for students.

Focus on:
- Mental health and stress management
- Physical wellness
- Nutrition
- Sleep hygiene
- Study-life balance

Make them actionable and realistic for student life.`, categoryPrompt)

	response := s.assistant.SendMessage(ctx, prompt)
	tips := parseBulletLines(response, 5)
	if len(tips) == 0 {
		return defaultHealthTips
	}
	return tips
}

func (s *HealthService) WellnessCheckIn(ctx context.Context, mood, energy, sleep, stress string) string {
	prompt := fmt.Sprintf(`Wellness Check-in Analysis:

Student reports:
- Mood: %s
- Energy level: %s
- Sleep quality: %s
- Stress level: %s

Provide:
1. Brief assessment of their current wellness state
2. 2-3 specific, actionable suggestions
3. Encouragement and positive reinforcement
4. Reminder to seek professional help if needed

Keep response supportive and practical.`, mood, energy, sleep, stress)

	return s.assistant.SendMessage(ctx, prompt)
}
