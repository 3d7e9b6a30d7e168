package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/MUGAIRWA/HACKATHON2/models"
	"github.com/MUGAIRWA/HACKATHON2/utils"

	"gorm.io/gorm"
)

// Quiz is generated on demand and lives only for the session that takes
// it; only the result is persisted.
type Quiz struct {
	ID             string         `json:"id"`
	Subject        string         `json:"subject"`
	Topic          string         `json:"topic"`
	Difficulty     string         `json:"difficulty"`
	Questions      []QuizQuestion `json:"questions"`
	TotalQuestions int            `json:"total_questions"`
}

type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizResultInput is what a client reports after finishing a quiz.
type QuizResultInput struct {
	Subject        string  `json:"subject"`
	Topic          string  `json:"topic"`
	Difficulty     string  `json:"difficulty"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	TimeTakenSecs  int     `json:"time_taken_seconds"`
}

// SubjectSummary is a per-subject progress rollup for dashboards.
type SubjectSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

type LearningService struct {
	db        *gorm.DB
	assistant *Assistant
	log       *slog.Logger
	studentID string
}

func NewLearningService(db *gorm.DB, assistant *Assistant, log *slog.Logger) *LearningService {
	return &LearningService{db: db, assistant: assistant, log: log.With("component", "learning_service")}
}

func (s *LearningService) SetStudentID(studentID string) {
	s.studentID = studentID
}

// GenerateQuiz runs the structured-generation pattern for a five-question
// multiple choice quiz. The quiz is returned, never persisted.
func (s *LearningService) GenerateQuiz(ctx context.Context, subject, topic, difficulty string) (*Quiz, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	prompt := fmt.Sprintf(`Generate a %s level quiz for %s on the topic %q.

Requirements:
- Create exactly 5 multiple choice questions
- Each question should have 4 options (A, B, C, D)
- Provide the correct answer index (0-3)
- Include a brief explanation for each correct answer
- Make questions appropriate for high school level
- Ensure questions test understanding, not just memorization

Format your response as JSON:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
      "correctAnswer": 0,
      "explanation": "Explanation of why this is correct"
    }
  ]
}`, difficulty, subject, topic)

	response := s.assistant.SendMessage(ctx, prompt)

	raw, err := utils.ExtractJSONObject(response)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz", ErrInvalidFormat)
	}

	var quizData struct {
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer int      `json:"correctAnswer"`
			Explanation   string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &quizData); err != nil {
		return nil, fmt.Errorf("%w: quiz: %v", ErrInvalidFormat, err)
	}

	quiz := &Quiz{
		ID:             utils.GenerateLocalID("quiz"),
		Subject:        subject,
		Topic:          topic,
		Difficulty:     difficulty,
		TotalQuestions: len(quizData.Questions),
	}
	for i, q := range quizData.Questions {
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			ID:            fmt.Sprintf("q_%d", i),
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return quiz, nil
}

// SaveQuizResult persists the session row and folds it into the
// incremental progress aggregate.
func (s *LearningService) SaveQuizResult(ctx context.Context, input QuizResultInput) (*models.QuizSession, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	if input.TotalQuestions <= 0 {
		return nil, fmt.Errorf("total_questions must be positive")
	}

	score := float64(input.CorrectAnswers) / float64(input.TotalQuestions) * 100

	session := &models.QuizSession{
		StudentID:      s.studentID,
		Subject:        input.Subject,
		Topic:          input.Topic,
		Difficulty:     input.Difficulty,
		TotalQuestions: input.TotalQuestions,
		CorrectAnswers: input.CorrectAnswers,
		Score:          score,
		TimeTakenMins:  int(math.Round(float64(input.TimeTakenSecs) / 60)),
		CompletedAt:    time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to save quiz result: %w", err)
	}

	if err := s.UpdateLearningProgress(ctx, input.Subject, input.Topic, score); err != nil {
		return nil, err
	}
	return session, nil
}

// Progress update rule constants. These drive the only incremental
// aggregate in the system and must not drift.
const (
	passScore        = 70
	passIncrement    = 5
	failIncrement    = 2
	initialPassLevel = 30
	initialFailLevel = 15
	maxProficiency   = 100
)

// NextProgress applies one quiz score to an existing aggregate.
func NextProgress(averageScore float64, totalQuizzes, proficiency int, score float64) (newAverage float64, newTotal, newProficiency int) {
	newAverage = (averageScore*float64(totalQuizzes) + score) / float64(totalQuizzes+1)
	newTotal = totalQuizzes + 1
	inc := failIncrement
	if score >= passScore {
		inc = passIncrement
	}
	newProficiency = proficiency + inc
	if newProficiency > maxProficiency {
		newProficiency = maxProficiency
	}
	return newAverage, newTotal, newProficiency
}

// InitialProficiency seeds a brand-new (subject, topic) aggregate.
func InitialProficiency(score float64) int {
	if score >= passScore {
		return initialPassLevel
	}
	return initialFailLevel
}

// UpdateLearningProgress recomputes the running average and bumps the
// proficiency level for one (subject, topic).
func (s *LearningService) UpdateLearningProgress(ctx context.Context, subject, topic string, score float64) error {
	if s.studentID == "" {
		return ErrStudentNotSet
	}

	var existing models.LearningProgress
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND subject = ? AND topic = ?", s.studentID, subject, topic).
		First(&existing).Error

	switch {
	case err == nil:
		avg, total, level := NextProgress(existing.AverageScore, existing.TotalQuizzes, existing.ProficiencyLevel, score)
		updates := map[string]any{
			"proficiency_level": level,
			"total_quizzes":     total,
			"average_score":     avg,
			"last_activity":     time.Now(),
		}
		if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update learning progress: %w", err)
		}
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		row := &models.LearningProgress{
			StudentID:        s.studentID,
			Subject:          subject,
			Topic:            topic,
			ProficiencyLevel: InitialProficiency(score),
			TotalQuizzes:     1,
			AverageScore:     score,
			LastActivity:     time.Now(),
		}
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			return fmt.Errorf("failed to create learning progress: %w", err)
		}
		return nil

	default:
		return err
	}
}

// QuizHistory returns the student's ten most recent quiz sessions.
func (s *LearningService) QuizHistory(ctx context.Context) ([]models.QuizSession, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	var sessions []models.QuizSession
	err := s.db.WithContext(ctx).
		Where("student_id = ?", s.studentID).
		Order("completed_at DESC").
		Limit(10).
		Find(&sessions).Error
	return sessions, err
}

// StudentSubjects groups progress rows by subject; a topic counts toward
// the subject's percentage once its proficiency reaches the pass line.
func (s *LearningService) StudentSubjects(ctx context.Context) ([]SubjectSummary, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}

	var rows []models.LearningProgress
	if err := s.db.WithContext(ctx).
		Select("subject", "proficiency_level").
		Where("student_id = ?", s.studentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	type agg struct{ total, passed int }
	bySubject := make(map[string]*agg)
	for _, row := range rows {
		a := bySubject[row.Subject]
		if a == nil {
			a = &agg{}
			bySubject[row.Subject] = a
		}
		a.total++
		if row.ProficiencyLevel >= passScore {
			a.passed++
		}
	}

	summaries := make([]SubjectSummary, 0, len(bySubject))
	for name, a := range bySubject {
		progress := 0
		if a.total > 0 {
			progress = int(math.Round(float64(a.passed) / float64(a.total) * 100))
		}
		summaries = append(summaries, SubjectSummary{
			ID:       strings.ToLower(strings.ReplaceAll(name, " ", "_")),
			Name:     name,
			Progress: progress,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// DeliverLesson and AnswerQuestion are prose features; the assistant's
// fallback policy already makes them total.

func (s *LearningService) DeliverLesson(ctx context.Context, subject, topic, difficulty string) string {
	if difficulty == "" {
		difficulty = "medium"
	}
	prompt := fmt.Sprintf(`You are an expert teacher delivering a lesson on %s - %s.

Please provide:
1. A clear learning objective
2. Key concepts explained simply
3. 2-3 examples with step-by-step solutions
4. Practice questions for the student
5. Summary of main takeaways

Make this engaging and appropriate for %s level understanding.
Keep the lesson comprehensive but not overwhelming.`, subject, topic, difficulty)

	return s.assistant.SendMessage(ctx, prompt)
}

func (s *LearningService) AnswerQuestion(ctx context.Context, subject, question string) string {
	prompt := fmt.Sprintf(`You are a knowledgeable tutor specializing in %s.

A student asks: %q

Please provide:
1. A clear, step-by-step answer
2. Additional context or related concepts
3. If applicable, suggest similar problems to practice
4. Encourage the student to think about the solution

Keep your response helpful, encouraging, and educational.`, subject, question)

	return s.assistant.SendMessage(ctx, prompt)
}
