package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MealRequest lifecycle statuses. Transitions are governed by the funding
// service; rows are never created in any status other than pending.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusFunded    = "funded"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// Canonical meal types accepted on a MealRequest.
var AllowedMealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

type MealRequest struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    string          `gorm:"type:uuid;index;not null" json:"student_id"`
	Title        string          `json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	MealType     string          `gorm:"size:16" json:"meal_type"`
	RequestedFor time.Time       `json:"requested_for"`
	Status       string          `gorm:"size:16;index;default:pending" json:"status"`
	ApprovedBy   *string         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	FundedBy     *string         `gorm:"type:uuid" json:"funded_by,omitempty"`
	FundedAt     *time.Time      `json:"funded_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Student *Profile `gorm:"-" json:"student,omitempty"`
}

func (m *MealRequest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Donation statuses.
const (
	DonationPending   = "pending"
	DonationCompleted = "completed"
	DonationFailed    = "failed"
)

type Donation struct {
	ID               string          `gorm:"type:uuid;primaryKey" json:"id"`
	DonorID          string          `gorm:"type:uuid;index;not null" json:"donor_id"`
	MealRequestID    string          `gorm:"type:uuid;index;not null" json:"meal_request_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Status           string          `gorm:"size:16;index;default:pending" json:"status"`
	PaymentReference string          `gorm:"uniqueIndex;size:64" json:"payment_reference"`
	Message          string          `json:"message,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Donor       *Profile     `gorm:"-" json:"donor,omitempty"`
	MealRequest *MealRequest `gorm:"-" json:"meal_request,omitempty"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// MealPlan stores an AI-generated plan. The generated meals and the
// nutritional summary are kept as one JSON document; the plan is an
// estimate and is never queried per-meal.
type MealPlan struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	StudentID string         `gorm:"type:uuid;index;not null" json:"student_id"`
	Budget    float64        `json:"budget"`
	Duration  int            `json:"duration"`
	TotalCost float64        `json:"total_cost"`
	PlanData  datatypes.JSON `json:"plan_data"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `gorm:"index" json:"expires_at"`
}

// Meal is one generated line item inside a MealPlan document.
type Meal struct {
	ID           string   `json:"id"`
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
}

type NutritionalSummary struct {
	TotalCalories     float64 `json:"totalCalories"`
	TotalProtein      float64 `json:"totalProtein"`
	TotalCarbs        float64 `json:"totalCarbs"`
	TotalFat          float64 `json:"totalFat"`
	AverageCostPerDay float64 `json:"averageCostPerDay"`
	BudgetUtilization float64 `json:"budgetUtilization"`
}

// MealPlanDocument is what PlanData serializes.
type MealPlanDocument struct {
	Meals              []Meal             `json:"meals"`
	NutritionalSummary NutritionalSummary `json:"nutritionalSummary"`
}
