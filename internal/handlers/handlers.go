package handlers

import (
	"github.com/dealdesk/dealdesk-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Filter       *FilterHandler
	Deal         *DealHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		Filter:       NewFilterHandler(svcs.Filter),
		Deal:         NewDealHandler(svcs.Deal, svcs.Export),
		Report:       NewReportHandler(svcs.Export),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
	}
}
