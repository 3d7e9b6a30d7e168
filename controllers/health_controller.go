package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type HealthController struct {
	Sessions *services.SessionManager
}

func NewHealthController(sessions *services.SessionManager) *HealthController {
	return &HealthController{Sessions: sessions}
}

type symptomInput struct {
	Symptoms     string `json:"symptoms" binding:"required"`
	DurationDays int    `json:"duration_days"`
	Notes        string `json:"notes"`
}

// AssessSymptoms runs the AI assessment and persists a health record.
func (hc *HealthController) AssessSymptoms(c *gin.Context) {
	var input symptomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := hc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	assessment, err := sess.Health.AssessSymptoms(c.Request.Context(), input.Symptoms, input.DurationDays, input.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	record, err := sess.Health.SaveHealthRecord(c.Request.Context(),
		input.Symptoms, assessment.Severity, input.DurationDays, input.Notes, assessment.AISuggestions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": assessment, "record": record})
}

func (hc *HealthController) History(c *gin.Context) {
	sess := hc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	records, err := sess.Health.HealthHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

type emergencyInput struct {
	Symptoms string `json:"symptoms"`
}

// AssessEmergency never fails; on any upstream trouble it returns the
// fail-safe emergency response.
func (hc *HealthController) AssessEmergency(c *gin.Context) {
	var input emergencyInput
	_ = c.ShouldBindJSON(&input)

	sess := hc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	assessment := sess.Health.AssessEmergency(c.Request.Context(), input.Symptoms)
	c.JSON(http.StatusOK, assessment)
}

func (hc *HealthController) Tips(c *gin.Context) {
	category := c.DefaultQuery("category", "general")
	sess := hc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	tips := sess.Health.HealthTips(c.Request.Context(), category)
	c.JSON(http.StatusOK, gin.H{"tips": tips})
}

type checkInInput struct {
	Mood   string `json:"mood" binding:"required"`
	Energy string `json:"energy" binding:"required"`
	Sleep  string `json:"sleep" binding:"required"`
	Stress string `json:"stress" binding:"required"`
}

func (hc *HealthController) WellnessCheckIn(c *gin.Context) {
	var input checkInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := hc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	advice := sess.Health.WellnessCheckIn(c.Request.Context(), input.Mood, input.Energy, input.Sleep, input.Stress)
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
