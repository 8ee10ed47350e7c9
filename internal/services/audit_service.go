package services

import (
	"context"

	"github.com/dealdesk/dealdesk-api/internal/jobs"
	"github.com/dealdesk/dealdesk-api/internal/models"
	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/pkg/logger"
)

// AuditService writes workflow audit entries off the request path.
type AuditService struct {
	auditRepo repository.AuditRepository
	worker    *jobs.Worker
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repository.AuditRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{auditRepo: auditRepo, worker: worker}
}

// Record persists an audit entry asynchronously.
func (s *AuditService) Record(entry *models.AuditEntry) {
	if s.worker == nil {
		// No worker in tests; write inline.
		if err := s.auditRepo.Create(context.Background(), entry); err != nil {
			logger.Error("Failed to write audit entry", "action", entry.Action, "error", err)
		}
		return
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.auditRepo.Create(ctx, entry)
	})
}

// List returns audit entries with pagination.
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditEntry, int64, error) {
	return s.auditRepo.List(ctx, query)
}
