package services

import (
	"context"
	"log/slog"

	"github.com/MUGAIRWA/HACKATHON2/models"
	"github.com/MUGAIRWA/HACKATHON2/utils"

	"gorm.io/gorm"
)

// NotificationService writes inbox rows and fans them out over the hub,
// push and email. Every leg is best-effort: a notification must never
// fail the state transition that triggered it.
type NotificationService struct {
	db   *gorm.DB
	hub  *RealtimeHub
	push *PushService
	log  *slog.Logger
}

func NewNotificationService(db *gorm.DB, hub *RealtimeHub, push *PushService, log *slog.Logger) *NotificationService {
	return &NotificationService{db: db, hub: hub, push: push, log: log.With("component", "notifications")}
}

// BroadcastEntityChange pushes a row-changed event to the owning user's
// connections and all admin dashboards, without writing an inbox row.
func (s *NotificationService) BroadcastEntityChange(userID, kind, table string, record any) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastChange(userID, ChangeEvent{Kind: kind, Table: table, Record: record})
}

// Notify is safe to call anywhere; it logs failures and returns nothing.
func (s *NotificationService) Notify(ctx context.Context, userID, title, message, typ string) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		s.log.ErrorContext(ctx, "failed to store notification", "user", userID, "error", err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastChange(userID, ChangeEvent{
			Kind:   "notification.created",
			Table:  "notifications",
			Record: n,
		})
	}

	if s.push != nil {
		if err := s.push.PushToUser(userID, title, message, map[string]string{"type": typ, "notificationId": n.ID}); err != nil {
			s.log.WarnContext(ctx, "push delivery failed", "user", userID, "error", err)
		}
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("email").First(&profile, "id = ?", userID).Error; err == nil {
		if typ == "request_update" {
			if err := utils.SendNotificationEmail(profile.Email, title, message); err != nil {
				s.log.WarnContext(ctx, "email delivery failed", "user", userID, "error", err)
			}
		}
	}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true).Error
}
