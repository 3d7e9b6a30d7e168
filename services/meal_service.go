package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MUGAIRWA/HACKATHON2/models"
	"github.com/MUGAIRWA/HACKATHON2/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MealService owns meal plans and meal requests for one bound student.
type MealService struct {
	db        *gorm.DB
	assistant *Assistant
	log       *slog.Logger
	studentID string
}

func NewMealService(db *gorm.DB, assistant *Assistant, log *slog.Logger) *MealService {
	return &MealService{db: db, assistant: assistant, log: log.With("component", "meal_service")}
}

func (s *MealService) SetStudentID(studentID string) {
	s.studentID = studentID
}

// NormalizeMealType maps any casing of the four allowed meal types onto
// the canonical capitalized form.
func NormalizeMealType(mealType string) (string, error) {
	if mealType == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidMealType)
	}
	normalized := strings.ToUpper(mealType[:1]) + strings.ToLower(mealType[1:])
	for _, allowed := range models.AllowedMealTypes {
		if normalized == allowed {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidMealType, mealType, strings.Join(models.AllowedMealTypes, ", "))
}

// CreateMealRequest records a student's ask for funded food. The acting
// identity must exist; requests always start pending with requested_for
// set to tomorrow.
func (s *MealService) CreateMealRequest(ctx context.Context, actorID string, amount decimal.Decimal, mealType, description string) (*models.MealRequest, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: need a signed-in student to create meal requests", ErrNotAuthenticated)
	}

	var student models.Profile
	if err := s.db.WithContext(ctx).First(&student, "id = ?", actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown profile %s", ErrNotAuthenticated, actorID)
		}
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}

	normalized, err := NormalizeMealType(mealType)
	if err != nil {
		return nil, err
	}

	request := &models.MealRequest{
		StudentID:    actorID,
		Title:        fmt.Sprintf("%s Request", normalized),
		Description:  description,
		Amount:       amount,
		MealType:     normalized,
		RequestedFor: time.Now().Add(24 * time.Hour),
		Status:       models.StatusPending,
	}

	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create meal request: %w", err)
	}
	return request, nil
}

func (s *MealService) ListMealRequests(ctx context.Context) ([]models.MealRequest, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	var requests []models.MealRequest
	err := s.db.WithContext(ctx).
		Where("student_id = ?", s.studentID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// generatedPlan mirrors the JSON shape the prompt asks for.
type generatedPlan struct {
	Meals []struct {
		Day          int      `json:"day"`
		Type         string   `json:"type"`
		Name         string   `json:"name"`
		Ingredients  []string `json:"ingredients"`
		Cost         float64  `json:"cost"`
		Calories     float64  `json:"calories"`
		Protein      float64  `json:"protein"`
		Carbs        float64  `json:"carbs"`
		Fat          float64  `json:"fat"`
		Instructions string   `json:"instructions"`
	} `json:"meals"`
	NutritionalSummary models.NutritionalSummary `json:"nutritionalSummary"`
}

// GenerateMealPlan runs the structured-generation pattern: prompt for
// JSON, extract the first balanced object, parse, map to the typed plan
// and persist it. Parse failures are hard errors; the caller needs valid
// structured data, not a canned apology.
func (s *MealService) GenerateMealPlan(ctx context.Context, budget float64, duration int, preferences string) (*models.MealPlan, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	if duration <= 0 {
		duration = 7
	}
	if preferences == "" {
		preferences = "No specific preferences"
	}

	prompt := fmt.Sprintf(`Create a %d-day meal plan for a student with a $%.2f weekly budget.

Requirements:
- Total cost should not exceed $%.2f
- Include breakfast, lunch, dinner, and 1-2 snacks per day
- Focus on nutritious, balanced meals
- Use affordable ingredients
- Consider food variety and cultural preferences
- Include simple recipes with basic instructions
- Provide nutritional information (calories, protein, carbs, fat)

Preferences: %s

Format your response as JSON:
{
  "meals": [
    {
      "day": 1,
      "type": "breakfast",
      "name": "Oatmeal with Fruit",
      "ingredients": ["oats", "banana", "milk"],
      "cost": 2.50,
      "calories": 350,
      "protein": 12,
      "carbs": 60,
      "fat": 8,
      "instructions": "Cook oats with milk, add sliced banana"
    }
  ],
  "nutritionalSummary": {
    "totalCalories": 2100,
    "totalProtein": 85,
    "totalCarbs": 280,
    "totalFat": 65,
    "averageCostPerDay": 15.50,
    "budgetUtilization": 85
  }
}`, duration, budget, budget, preferences)

	response := s.assistant.SendMessage(ctx, prompt)

	raw, err := utils.ExtractJSONObject(response)
	if err != nil {
		return nil, fmt.Errorf("%w: meal plan", ErrInvalidFormat)
	}

	var plan generatedPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("%w: meal plan: %v", ErrInvalidFormat, err)
	}

	doc := models.MealPlanDocument{NutritionalSummary: plan.NutritionalSummary}
	for i, m := range plan.Meals {
		doc.Meals = append(doc.Meals, models.Meal{
			ID:           fmt.Sprintf("meal_%d", i),
			Day:          m.Day,
			Type:         m.Type,
			Name:         m.Name,
			Ingredients:  m.Ingredients,
			Cost:         m.Cost,
			Calories:     m.Calories,
			Protein:      m.Protein,
			Carbs:        m.Carbs,
			Fat:          m.Fat,
			Instructions: m.Instructions,
		})
	}

	planData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan document: %w", err)
	}

	now := time.Now()
	mealPlan := &models.MealPlan{
		ID:        utils.GenerateLocalID("mealplan"),
		StudentID: s.studentID,
		Budget:    budget,
		Duration:  duration,
		TotalCost: PlanTotalCost(plan.NutritionalSummary.AverageCostPerDay, duration),
		PlanData:  planData,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(duration) * 24 * time.Hour),
	}

	if err := s.db.WithContext(ctx).Create(mealPlan).Error; err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}
	return mealPlan, nil
}

// PlanTotalCost derives a plan's total from the generated per-day average.
func PlanTotalCost(averageCostPerDay float64, duration int) float64 {
	return averageCostPerDay * float64(duration)
}

// CurrentMealPlan returns the newest plan that has not expired, or nil.
func (s *MealService) CurrentMealPlan(ctx context.Context) (*models.MealPlan, error) {
	if s.studentID == "" {
		return nil, ErrStudentNotSet
	}
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND expires_at > ?", s.studentID, time.Now()).
		Order("created_at DESC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// QuickMealSuggestions asks for a few options as prose and line-parses
// them. This is a convenience view; an unparseable answer just yields
// fewer suggestions.
func (s *MealService) QuickMealSuggestions(ctx context.Context, budget float64, mealType string) []string {
	prompt := fmt.Sprintf(`Suggest 3 %s options for a student with a $%.2f daily budget.

For each meal include:
- Name
- Key ingredients
- Estimated cost
- Basic nutritional info
- Simple preparation instructions

Focus on healthy, affordable options.`, mealType, budget)

	response := s.assistant.SendMessage(ctx, prompt)
	return parseBulletLines(response, 3)
}

var defaultNutritionalTips = []string{
	"Include a variety of colorful vegetables in your meals",
	"Choose whole grains over refined grains when possible",
	"Include protein in every meal to stay full longer",
	"Stay hydrated with water instead of sugary drinks",
	"Plan meals ahead to make healthier choices",
}

func (s *MealService) NutritionalTips(ctx context.Context) []string {
	prompt := `Provide 5 practical nutritional tips for students on a budget.

Focus on:
- Maximizing nutrition from affordable foods
- Balanced meal planning
- Healthy eating habits
- Portion control
- Making the most of limited resources

Make them actionable and realistic.`

	response := s.assistant.SendMessage(ctx, prompt)
	tips := parseBulletLines(response, 5)
	if len(tips) == 0 {
		return defaultNutritionalTips
	}
	return tips
}

// parseBulletLines keeps up to limit numbered/bulleted lines, stripped of
// their markers.
func parseBulletLines(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, "0123456789.)-•* \t")
		if trimmed == line || strings.TrimSpace(trimmed) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(trimmed))
		if len(out) == limit {
			break
		}
	}
	return out
}
