package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type LearningController struct {
	Sessions *services.SessionManager
}

func NewLearningController(sessions *services.SessionManager) *LearningController {
	return &LearningController{Sessions: sessions}
}

type quizInput struct {
	Subject    string `json:"subject" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
}

func (lc *LearningController) GenerateQuiz(c *gin.Context) {
	var input quizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Difficulty == "" {
		input.Difficulty = "medium"
	}

	sess := lc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	quiz, err := sess.Learning.GenerateQuiz(c.Request.Context(), input.Subject, input.Topic, input.Difficulty)
	if errors.Is(err, services.ErrInvalidFormat) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (lc *LearningController) SubmitResult(c *gin.Context) {
	var input services.QuizResultInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.TotalQuestions <= 0 || input.CorrectAnswers < 0 || input.CorrectAnswers > input.TotalQuestions {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz result"})
		return
	}

	sess := lc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	session, err := sess.Learning.SaveQuizResult(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (lc *LearningController) QuizHistory(c *gin.Context) {
	sess := lc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	history, err := sess.Learning.QuizHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (lc *LearningController) Subjects(c *gin.Context) {
	sess := lc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	subjects, err := sess.Learning.StudentSubjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

type lessonInput struct {
	Subject    string `json:"subject" binding:"required"`
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty"`
}

func (lc *LearningController) Lesson(c *gin.Context) {
	var input lessonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Difficulty == "" {
		input.Difficulty = "medium"
	}

	sess := lc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	lesson := sess.Learning.DeliverLesson(c.Request.Context(), input.Subject, input.Topic, input.Difficulty)
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

type questionInput struct {
	Subject  string `json:"subject" binding:"required"`
	Question string `json:"question" binding:"required"`
}

func (lc *LearningController) Ask(c *gin.Context) {
	var input questionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := lc.Sessions.Session(c.Request.Context(), c.GetString("userID"))
	answer := sess.Learning.AnswerQuestion(c.Request.Context(), input.Subject, input.Question)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
