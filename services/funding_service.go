package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MUGAIRWA/HACKATHON2/models"
	"github.com/MUGAIRWA/HACKATHON2/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CanTransition encodes the meal request lifecycle:
// pending -> approved -> funded -> completed, plus pending -> rejected.
// rejected and completed are terminal; no transition skips forward.
func CanTransition(from, to string) bool {
	switch from {
	case models.StatusPending:
		return to == models.StatusApproved || to == models.StatusRejected
	case models.StatusApproved:
		return to == models.StatusFunded
	case models.StatusFunded:
		return to == models.StatusCompleted
	default:
		return false
	}
}

// FundingService drives MealRequest status transitions and donor money
// movement. It is role-agnostic; the HTTP layer gates who may call what.
type FundingService struct {
	db            *gorm.DB
	gateway       PaymentGateway
	notifications *NotificationService
	log           *slog.Logger
}

func NewFundingService(db *gorm.DB, gateway PaymentGateway, notifications *NotificationService, log *slog.Logger) *FundingService {
	return &FundingService{
		db:            db,
		gateway:       gateway,
		notifications: notifications,
		log:           log.With("component", "funding_service"),
	}
}

func (s *FundingService) loadRequest(ctx context.Context, requestID string) (*models.MealRequest, error) {
	var request models.MealRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error; err != nil {
		return nil, fmt.Errorf("meal request %s: %w", requestID, err)
	}
	return &request, nil
}

// Approve flips a pending request to approved and records who and when.
// The student notification is best-effort and never fails the approval.
func (s *FundingService) Approve(ctx context.Context, requestID, adminID string) (*models.MealRequest, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(request.Status, models.StatusApproved) {
		return nil, fmt.Errorf("%w: %s -> approved", ErrInvalidTransition, request.Status)
	}

	now := time.Now()
	request.Status = models.StatusApproved
	request.ApprovedBy = &adminID
	request.ApprovedAt = &now
	if err := s.db.WithContext(ctx).Save(request).Error; err != nil {
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	s.notifications.BroadcastEntityChange(request.StudentID, "meal_request.updated", "meal_requests", request)
	s.notifications.Notify(ctx, request.StudentID, "Request approved",
		fmt.Sprintf("Your meal request %q has been approved by admin.", request.Title),
		"request_update")
	return request, nil
}

// Reject is a pure status flip out of pending; no other field changes.
func (s *FundingService) Reject(ctx context.Context, requestID, adminID string) (*models.MealRequest, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(request.Status, models.StatusRejected) {
		return nil, fmt.Errorf("%w: %s -> rejected", ErrInvalidTransition, request.Status)
	}

	if err := s.db.WithContext(ctx).Model(request).Update("status", models.StatusRejected).Error; err != nil {
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}
	request.Status = models.StatusRejected

	s.notifications.BroadcastEntityChange(request.StudentID, "meal_request.updated", "meal_requests", request)
	s.notifications.Notify(ctx, request.StudentID, "Request rejected",
		fmt.Sprintf("Your meal request %q has been rejected by admin.", request.Title),
		"request_update")
	return request, nil
}

// InitiateDonation creates the pending Donation and opens checkout with
// the payment gateway. Donations must match the request amount exactly:
// partial funding has no representation in the request lifecycle.
func (s *FundingService) InitiateDonation(ctx context.Context, donorID, requestID string, amount decimal.Decimal, donorEmail string) (*models.Donation, string, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if request.Status != models.StatusApproved {
		return nil, "", fmt.Errorf("%w: can only fund approved requests (is %s)", ErrInvalidTransition, request.Status)
	}
	if !amount.Equal(request.Amount) {
		return nil, "", fmt.Errorf("%w: request wants %s, got %s", ErrAmountMismatch, request.Amount, amount)
	}

	donation := &models.Donation{
		DonorID:          donorID,
		MealRequestID:    requestID,
		Amount:           amount,
		Status:           models.DonationPending,
		PaymentReference: utils.GeneratePaymentReference(),
	}
	if err := s.db.WithContext(ctx).Create(donation).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create donation: %w", err)
	}

	authorizationURL, err := s.gateway.Initialize(ctx, PaymentInit{
		Email:            donorEmail,
		AmountMinorUnits: amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Reference:        donation.PaymentReference,
		Metadata: map[string]string{
			"meal_request_id": requestID,
			"donor_id":        donorID,
		},
	})
	if err != nil {
		// The pending donation stays behind; it can be retried or will
		// simply never confirm.
		return nil, "", fmt.Errorf("payment initialization failed: %w", err)
	}

	return donation, authorizationURL, nil
}

// ConfirmDonation handles the gateway callback. The reference is verified
// independently against the gateway before anything is trusted, then the
// donation and the request are flipped in one transaction so a completed
// donation can never point at a non-funded request.
func (s *FundingService) ConfirmDonation(ctx context.Context, reference string) (*models.Donation, error) {
	var donation models.Donation
	if err := s.db.WithContext(ctx).First(&donation, "payment_reference = ?", reference).Error; err != nil {
		return nil, fmt.Errorf("no donation for reference %s: %w", reference, err)
	}
	if donation.Status != models.DonationPending {
		return nil, fmt.Errorf("donation %s is %s, expected pending", donation.ID, donation.Status)
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}
	if !result.Success || result.AmountMinorUnits != donation.Amount.Mul(decimal.NewFromInt(100)).IntPart() {
		if err := s.db.WithContext(ctx).Model(&donation).Update("status", models.DonationFailed).Error; err != nil {
			s.log.ErrorContext(ctx, "failed to mark donation failed", "donation", donation.ID, "error", err)
		}
		return nil, fmt.Errorf("payment for reference %s did not verify", reference)
	}

	var request models.MealRequest
	now := time.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ?", donation.MealRequestID).Error; err != nil {
			return err
		}
		if !CanTransition(request.Status, models.StatusFunded) {
			return fmt.Errorf("%w: %s -> funded", ErrInvalidTransition, request.Status)
		}

		if err := tx.Model(&donation).Update("status", models.DonationCompleted).Error; err != nil {
			return err
		}
		return fundRequestRow(tx, request.ID, donation.DonorID, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to complete funding: %w", err)
	}
	donation.Status = models.DonationCompleted
	request.Status = models.StatusFunded
	request.FundedBy = &donation.DonorID
	request.FundedAt = &now

	s.notifications.BroadcastEntityChange(request.StudentID, "meal_request.updated", "meal_requests", &request)
	s.notifications.BroadcastEntityChange(donation.DonorID, "donation.updated", "donations", &donation)
	s.notifications.Notify(ctx, request.StudentID, "Meal request funded",
		fmt.Sprintf("Your meal request %q has been funded. Enjoy your meal!", request.Title),
		"donation_received")
	s.notifications.Notify(ctx, donation.DonorID, "Donation received",
		fmt.Sprintf("Thank you! Your donation of %s is confirmed.", donation.Amount),
		"donation_received")

	return &donation, nil
}

// fundRequestRow flips approved -> funded with the status guard inside
// the UPDATE itself, so two confirms racing on one request cannot both
// fund it; the loser matches zero rows.
func fundRequestRow(tx *gorm.DB, requestID, donorID string, at time.Time) error {
	res := tx.Model(&models.MealRequest{}).
		Where("id = ? AND status = ?", requestID, models.StatusApproved).
		Updates(map[string]any{
			"status":    models.StatusFunded,
			"funded_by": donorID,
			"funded_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: request %s is no longer approved", ErrInvalidTransition, requestID)
	}
	return nil
}

// CompleteRequest closes out a funded request once the meal was actually
// delivered; this is a manual admin step.
func (s *FundingService) CompleteRequest(ctx context.Context, requestID, adminID string) (*models.MealRequest, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(request.Status, models.StatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> completed", ErrInvalidTransition, request.Status)
	}
	if err := s.db.WithContext(ctx).Model(request).Update("status", models.StatusCompleted).Error; err != nil {
		return nil, fmt.Errorf("failed to complete request: %w", err)
	}
	request.Status = models.StatusCompleted

	s.notifications.BroadcastEntityChange(request.StudentID, "meal_request.updated", "meal_requests", request)
	return request, nil
}

// AddFundsToDonorBalance credits a donor wallet with a single atomic
// increment; concurrent top-ups serialize at the database.
func (s *FundingService) AddFundsToDonorBalance(ctx context.Context, donorID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("top-up amount must be positive, got %s", amount)
	}

	result := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND role = ?", donorID, models.RoleDonor).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return decimal.Zero, fmt.Errorf("failed to add funds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, fmt.Errorf("no donor profile %s", donorID)
	}

	return s.DonorBalance(ctx, donorID)
}

func (s *FundingService) DonorBalance(ctx context.Context, donorID string) (decimal.Decimal, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("balance").First(&profile, "id = ?", donorID).Error; err != nil {
		return decimal.Zero, err
	}
	return profile.Balance, nil
}

// ListRequests returns meal requests, optionally filtered by status or
// student, with the owning student profiles attached via an id-set batch
// fetch (no server-side join assumed).
func (s *FundingService) ListRequests(ctx context.Context, status, studentID string) ([]models.MealRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if studentID != "" {
		q = q.Where("student_id = ?", studentID)
	}

	var requests []models.MealRequest
	if err := q.Find(&requests).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(requests))
	seen := make(map[string]bool)
	for _, r := range requests {
		if !seen[r.StudentID] {
			seen[r.StudentID] = true
			ids = append(ids, r.StudentID)
		}
	}

	profiles, err := s.profilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		requests[i].Student = profiles[requests[i].StudentID]
	}
	return requests, nil
}

// ListDonations returns donations with donor and request details resolved
// the same way.
func (s *FundingService) ListDonations(ctx context.Context, donorID string) ([]models.Donation, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if donorID != "" {
		q = q.Where("donor_id = ?", donorID)
	}

	var donations []models.Donation
	if err := q.Find(&donations).Error; err != nil {
		return nil, err
	}

	var donorIDs, requestIDs []string
	seenDonor := make(map[string]bool)
	seenReq := make(map[string]bool)
	for _, d := range donations {
		if !seenDonor[d.DonorID] {
			seenDonor[d.DonorID] = true
			donorIDs = append(donorIDs, d.DonorID)
		}
		if !seenReq[d.MealRequestID] {
			seenReq[d.MealRequestID] = true
			requestIDs = append(requestIDs, d.MealRequestID)
		}
	}

	donors, err := s.profilesByIDs(ctx, donorIDs)
	if err != nil {
		return nil, err
	}

	requests := make(map[string]*models.MealRequest)
	if len(requestIDs) > 0 {
		var rows []models.MealRequest
		if err := s.db.WithContext(ctx).Where("id IN ?", requestIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		var studentIDs []string
		seenStudent := make(map[string]bool)
		for _, r := range rows {
			if !seenStudent[r.StudentID] {
				seenStudent[r.StudentID] = true
				studentIDs = append(studentIDs, r.StudentID)
			}
		}
		students, err := s.profilesByIDs(ctx, studentIDs)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			rows[i].Student = students[rows[i].StudentID]
			requests[rows[i].ID] = &rows[i]
		}
	}

	for i := range donations {
		donations[i].Donor = donors[donations[i].DonorID]
		donations[i].MealRequest = requests[donations[i].MealRequestID]
	}
	return donations, nil
}

func (s *FundingService) profilesByIDs(ctx context.Context, ids []string) (map[string]*models.Profile, error) {
	out := make(map[string]*models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Profile
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// PlatformStats is the admin dashboard rollup.
type PlatformStats struct {
	TotalUsers      int64           `json:"total_users"`
	TotalRequests   int64           `json:"total_requests"`
	PendingRequests int64           `json:"pending_requests"`
	TotalDonations  int64           `json:"total_donations"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

func (s *FundingService) Stats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Profile{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.MealRequest{}).Count(&stats.TotalRequests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.MealRequest{}).Where("status = ?", models.StatusPending).Count(&stats.PendingRequests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Donation{}).Count(&stats.TotalDonations).Error; err != nil {
		return nil, err
	}

	var completed []models.Donation
	if err := db.Select("amount").Where("status = ?", models.DonationCompleted).Find(&completed).Error; err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, d := range completed {
		total = total.Add(d.Amount)
	}
	stats.TotalAmount = total

	return &stats, nil
}
