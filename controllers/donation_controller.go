package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MUGAIRWA/HACKATHON2/services"
)

type DonationController struct {
	Funding *services.FundingService
}

func NewDonationController(funding *services.FundingService) *DonationController {
	return &DonationController{Funding: funding}
}

type donationInput struct {
	RequestID string          `json:"request_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// Initiate creates a pending donation and returns the gateway
// authorization URL the donor is redirected to.
func (dc *DonationController) Initiate(c *gin.Context) {
	var input donationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, authURL, err := dc.Funding.InitiateDonation(
		c.Request.Context(), c.GetString("userID"), input.RequestID, input.Amount, c.GetString("email"))
	if errors.Is(err, services.ErrAmountMismatch) || errors.Is(err, services.ErrInvalidTransition) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"donation":          donation,
		"authorization_url": authURL,
	})
}

// Verify is the payment callback. It confirms the charge with the
// gateway and, on success, funds the meal request.
func (dc *DonationController) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required"})
		return
	}

	donation, err := dc.Funding.ConfirmDonation(c.Request.Context(), reference)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, donation)
}

func (dc *DonationController) MyDonations(c *gin.Context) {
	donations, err := dc.Funding.ListDonations(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, donations)
}

type topUpInput struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (dc *DonationController) TopUpWallet(c *gin.Context) {
	var input topUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	balance, err := dc.Funding.AddFundsToDonorBalance(c.Request.Context(), c.GetString("userID"), input.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (dc *DonationController) Balance(c *gin.Context) {
	balance, err := dc.Funding.DonorBalance(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
