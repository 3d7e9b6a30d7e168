package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type AdminController struct {
	Funding *services.FundingService
}

func NewAdminController(funding *services.FundingService) *AdminController {
	return &AdminController{Funding: funding}
}

func (ac *AdminController) respondTransition(c *gin.Context, request interface{}, err error) {
	if errors.Is(err, services.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, request)
}

func (ac *AdminController) ApproveRequest(c *gin.Context) {
	request, err := ac.Funding.Approve(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	ac.respondTransition(c, request, err)
}

func (ac *AdminController) RejectRequest(c *gin.Context) {
	request, err := ac.Funding.Reject(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	ac.respondTransition(c, request, err)
}

func (ac *AdminController) CompleteRequest(c *gin.Context) {
	request, err := ac.Funding.CompleteRequest(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	ac.respondTransition(c, request, err)
}

// ListRequests supports ?status= and ?student_id= filters.
func (ac *AdminController) ListRequests(c *gin.Context) {
	requests, err := ac.Funding.ListRequests(c.Request.Context(), c.Query("status"), c.Query("student_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (ac *AdminController) ListDonations(c *gin.Context) {
	donations, err := ac.Funding.ListDonations(c.Request.Context(), c.Query("donor_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, donations)
}

func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.Funding.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
