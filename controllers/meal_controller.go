package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type MealController struct {
	Sessions *services.SessionManager
}

func NewMealController(sessions *services.SessionManager) *MealController {
	return &MealController{Sessions: sessions}
}

type mealRequestInput struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	MealType    string          `json:"mealType" binding:"required"`
	Description string          `json:"description"`
}

func (mc *MealController) CreateRequest(c *gin.Context) {
	var input mealRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	sess := mc.Sessions.Session(c.Request.Context(), userID)
	request, err := sess.Meals.CreateMealRequest(c.Request.Context(), userID, input.Amount, input.MealType, input.Description)
	if errors.Is(err, services.ErrInvalidMealType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (mc *MealController) MyRequests(c *gin.Context) {
	sess := mc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	requests, err := sess.Meals.ListMealRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

type mealPlanInput struct {
	Budget      float64 `json:"budget" binding:"required,gt=0"`
	Duration    int     `json:"duration" binding:"omitempty,gt=0"` // omitted -> service default of 7 days
	Preferences string  `json:"preferences"`
}

func (mc *MealController) GeneratePlan(c *gin.Context) {
	var input mealPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := mc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	plan, err := sess.Meals.GenerateMealPlan(c.Request.Context(), input.Budget, input.Duration, input.Preferences)
	if errors.Is(err, services.ErrInvalidFormat) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (mc *MealController) CurrentPlan(c *gin.Context) {
	sess := mc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	plan, err := sess.Meals.CurrentMealPlan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active meal plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (mc *MealController) Suggestions(c *gin.Context) {
	budget, _ := strconv.ParseFloat(c.DefaultQuery("budget", "5"), 64)
	mealType := c.DefaultQuery("mealType", "Lunch")

	sess := mc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	suggestions := sess.Meals.QuickMealSuggestions(c.Request.Context(), budget, mealType)
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (mc *MealController) Tips(c *gin.Context) {
	sess := mc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	tips := sess.Meals.NutritionalTips(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}
