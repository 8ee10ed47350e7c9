package services

import (
	"time"

	"github.com/dealdesk/dealdesk-api/internal/config"
	"github.com/dealdesk/dealdesk-api/internal/jobs"
	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/internal/session"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	Filter       *FilterService
	Deal         *DealService
	Notification *NotificationService
	Audit        *AuditService
	Email        *EmailService
	Export       *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, client *upstream.Client, sessions *session.Store, worker *jobs.Worker, cfg *config.Config) *Services {
	notificationSvc := NewNotificationService(repos.Notification)
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(repos.Audit, worker)
	filterSvc := NewFilterService(client, time.Duration(cfg.FilterRefreshMinutes)*time.Minute)

	return &Services{
		Auth:         NewAuthService(client, sessions, cfg),
		Filter:       filterSvc,
		Deal:         NewDealService(repos.Draft, client, filterSvc, notificationSvc, auditSvc, emailSvc, worker),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Email:        emailSvc,
		Export:       NewExportService(client, filterSvc),
	}
}
