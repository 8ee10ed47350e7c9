package services

import (
	"context"

	"github.com/dealdesk/dealdesk-api/internal/models"
	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/pkg/logger"
)

// NotificationService persists user-facing outcome messages. A create failure
// is logged, never propagated: a lost toast must not fail a submission.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) notify(ctx context.Context, userID, title, message, notificationType string) {
	n := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notificationType,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.Error("Failed to create notification", "user_id", userID, "type", notificationType, "error", err)
	}
}

// DealSubmitted records a successful deal creation.
func (s *NotificationService) DealSubmitted(ctx context.Context, userID, dealID string) {
	s.notify(ctx, userID, "Deal submitted", "Your deal was submitted successfully (ref "+dealID+").", models.NotificationTypeDealSubmitted)
}

// DealUpdated records a successful deal update.
func (s *NotificationService) DealUpdated(ctx context.Context, userID, dealID string) {
	s.notify(ctx, userID, "Deal updated", "Deal "+dealID+" was updated successfully.", models.NotificationTypeDealUpdated)
}

// SubmitFailed records a failed dispatch with the upstream message.
func (s *NotificationService) SubmitFailed(ctx context.Context, userID, message string) {
	s.notify(ctx, userID, "Submission failed", message, models.NotificationTypeSubmitFailed)
}

// PermissionDenied records a rejected role/mode combination.
func (s *NotificationService) PermissionDenied(ctx context.Context, userID, message string) {
	s.notify(ctx, userID, "Permission denied", message, models.NotificationTypePermissionDenied)
}

// List returns the user's notifications, optionally unread only.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
}

// MarkAsRead marks one notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uint, userID string) error {
	return s.notificationRepo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead marks every unread notification as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}
