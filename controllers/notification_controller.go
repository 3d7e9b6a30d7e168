package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(ns *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: ns}
}

func (nc *NotificationController) List(c *gin.Context) {
	notifications, err := nc.Notifications.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.Notifications.MarkRead(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}
