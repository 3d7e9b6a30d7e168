package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ChatMessage is one turn of the in-memory session transcript.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// StudentContext shapes prompts for the active student. It is never
// persisted; it only influences prompt construction.
type StudentContext struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	Grade     string `json:"grade,omitempty"`
	School    string `json:"school,omitempty"`
}

const assistantTimeout = 30 * time.Second

// Terms that disqualify a model response outright. Naive substring
// containment, matched case-insensitively.
var flaggedTerms = []string{"inappropriate", "offensive", "harmful"}

var (
	healthKeywords = []string{"health", "sick", "pain", "headache", "fever"}
	studyKeywords  = []string{"study", "learn", "quiz", "math", "science", "homework", "exam", "test"}
	mealKeywords   = []string{"meal", "food", "eat", "budget", "hungry", "nutrition"}
)

const (
	fallbackHealth = "I'm experiencing technical difficulties right now. For health concerns, please consult a healthcare professional or contact your school's health services immediately. If this is an emergency, call emergency services (911 or your local emergency number) right away."
	fallbackStudy  = "I'm having trouble connecting right now. Please try again in a moment, or ask your teacher for help with your studies. You can also use online learning resources or study groups for additional support."
	fallbackMeal   = "I'm temporarily unavailable for meal planning. For immediate needs, consider balanced meals with proteins, vegetables, and whole grains. Check with your school's cafeteria or local food bank for current offerings and support."
	fallbackGeneral = "I'm experiencing some technical difficulties and can't respond right now. Please try again in a few moments. If you need immediate help with health concerns, contact a medical professional. For academic help, reach out to your teacher or school administration."
)

// Assistant wraps the generative backend with prompt construction, a hard
// timeout, content screening and a fallback policy. SendMessage never
// returns an error: the caller always gets either the model's text or a
// canned safety-oriented response, because raw errors are worse than a
// generic safe answer for this audience.
type Assistant struct {
	generator ContentGenerator
	log       *slog.Logger

	mu      sync.Mutex
	history []ChatMessage
	student *StudentContext
}

func NewAssistant(generator ContentGenerator, log *slog.Logger) *Assistant {
	return &Assistant{
		generator: generator,
		log:       log.With("component", "assistant"),
	}
}

// SetStudentContext replaces the active context. Calls already in flight
// keep the prompt they were built with.
func (a *Assistant) SetStudentContext(ctx StudentContext) {
	a.mu.Lock()
	a.student = &ctx
	a.mu.Unlock()
}

func (a *Assistant) appendMessage(role, content string) {
	a.mu.Lock()
	a.history = append(a.history, ChatMessage{Role: role, Content: content, Timestamp: time.Now()})
	a.mu.Unlock()
}

// SendMessage is the one path to the model. The message is appended to
// history before dispatch and the response after resolution.
func (a *Assistant) SendMessage(ctx context.Context, message string) string {
	a.appendMessage("user", message)

	text, err := a.generate(ctx, message)
	if err != nil {
		a.log.WarnContext(ctx, "assistant falling back to canned response", "error", err)
		text = fallbackResponse(message)
	}

	a.appendMessage("assistant", text)
	return text
}

func (a *Assistant) generate(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("empty message")
	}

	prompt := a.buildContextPrompt(message)

	// Context timeout rather than a bare timer race, so the upstream call
	// is actually aborted instead of abandoned.
	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	text, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from AI service")
	}
	if containsFlaggedTerm(text) {
		return "", fmt.Errorf("response contains flagged content")
	}
	return text, nil
}

func containsFlaggedTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range flaggedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// fallbackResponse buckets the ORIGINAL user message, not the failed
// response, so a health question still gets the emergency-services
// directive even when the model never answered.
func fallbackResponse(message string) string {
	lower := strings.ToLower(message)

	contains := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case contains(healthKeywords):
		return fallbackHealth
	case contains(studyKeywords):
		return fallbackStudy
	case contains(mealKeywords):
		return fallbackMeal
	default:
		return fallbackGeneral
	}
}

func (a *Assistant) buildContextPrompt(userMessage string) string {
	var sb strings.Builder
	sb.WriteString(`You are an AI assistant for a student meal donation platform. You help students with:

1. EDUCATION: Teaching subjects, answering questions, generating quizzes and exams
2. HEALTH: Providing health advice, diagnosis suggestions, monitoring health
3. MEAL PLANNING: Creating budget-friendly meal plans based on student budgets

`)

	a.mu.Lock()
	student := a.student
	a.mu.Unlock()

	if student != nil {
		grade := student.Grade
		if grade == "" {
			grade = "Not specified"
		}
		school := student.School
		if school == "" {
			school = "Not specified"
		}
		fmt.Fprintf(&sb, "STUDENT CONTEXT:\n- Name: %s\n- Grade: %s\n- School: %s\n\n", student.FullName, grade, school)
	}

	sb.WriteString(`IMPORTANT GUIDELINES:
- Be encouraging and supportive
- For health issues: Always recommend seeing a doctor for serious concerns
- For education: Adapt to student's grade level
- For meal planning: Focus on nutritious, affordable options
- Keep responses clear and age-appropriate
- If asked about sensitive topics, direct to appropriate professionals

USER MESSAGE: `)
	sb.WriteString(userMessage)
	sb.WriteString("\n\nPlease provide a helpful, accurate response:")

	return sb.String()
}

// ChatHistory returns a copy; mutating it does not touch internal state.
func (a *Assistant) ChatHistory() []ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ChatMessage, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Assistant) ClearHistory() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

// GenerateQuiz, CreateMealPlan and ProvideHealthAdvice are prompt
// templates over SendMessage; they add no validation of their own.

func (a *Assistant) GenerateQuiz(ctx context.Context, subject, difficulty string) string {
	if difficulty == "" {
		difficulty = "medium"
	}

	grade := "high school"
	a.mu.Lock()
	if a.student != nil && a.student.Grade != "" {
		grade = a.student.Grade
	}
	a.mu.Unlock()

	prompt := fmt.Sprintf(`Generate a %s level quiz for %s suitable for a %s student.

Include:
- 5 multiple choice questions
- 3 short answer questions
- Answer key at the end

Format the quiz professionally and make it educational.`, difficulty, subject, grade)

	return a.SendMessage(ctx, prompt)
}

func (a *Assistant) CreateMealPlan(ctx context.Context, budget float64, duration int) string {
	if duration <= 0 {
		duration = 7
	}

	prompt := fmt.Sprintf(`Create a %d-day meal plan for a student with a budget of $%.2f.

Consider:
- Nutritious and balanced meals
- Cost-effective ingredients
- Easy to prepare
- Cultural variety if possible
- Total cost breakdown

Make it practical and healthy.`, duration, budget)

	return a.SendMessage(ctx, prompt)
}

func (a *Assistant) ProvideHealthAdvice(ctx context.Context, symptoms string) string {
	prompt := fmt.Sprintf(`A student is experiencing: %s

Provide general health advice, but IMPORTANT:
- This is NOT medical diagnosis
- Recommend seeing a healthcare professional
- Suggest general wellness tips
- Ask about severity and duration
- Be supportive but cautious

Keep response helpful but not diagnostic.`, symptoms)

	return a.SendMessage(ctx, prompt)
}
