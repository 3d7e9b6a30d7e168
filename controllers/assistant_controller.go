package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type AssistantController struct {
	Sessions *services.SessionManager
}

func NewAssistantController(sessions *services.SessionManager) *AssistantController {
	return &AssistantController{Sessions: sessions}
}

type chatInput struct {
	Message string `json:"message" binding:"required"`
}

func (ac *AssistantController) Chat(c *gin.Context) {
	var input chatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	sess := ac.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	reply := sess.Assistant.SendMessage(c.Request.Context(), input.Message)
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func (ac *AssistantController) History(c *gin.Context) {
	sess := ac.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	c.JSON(http.StatusOK, gin.H{"messages": sess.Assistant.ChatHistory()})
}

func (ac *AssistantController) ClearHistory(c *gin.Context) {
	sess := ac.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	sess.Assistant.ClearHistory()
	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

func (ac *AssistantController) SetContext(c *gin.Context) {
	var input services.StudentContext
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.StudentID = c.GetString("userID")

	sess := ac.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	sess.Assistant.SetStudentContext(input)
	c.JSON(http.StatusOK, gin.H{"message": "context updated"})
}
