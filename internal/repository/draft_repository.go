package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dealdesk/dealdesk-api/internal/models"
)

// DraftRepository defines the interface for deal draft data access
type DraftRepository interface {
	Create(ctx context.Context, draft *models.DealDraft) error
	FindByID(ctx context.Context, id string) (*models.DealDraft, error)
	FindForUser(ctx context.Context, id, userID string) (*models.DealDraft, error)
	ListByUser(ctx context.Context, userID string) ([]models.DealDraft, error)
	Update(ctx context.Context, draft *models.DealDraft) error
	Delete(ctx context.Context, id string) error
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Create(ctx context.Context, draft *models.DealDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

func (r *draftRepository) FindByID(ctx context.Context, id string) (*models.DealDraft, error) {
	var draft models.DealDraft
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindForUser scopes the lookup to the draft owner. Drafts are per-author
// scratch space, so not even admins read someone else's.
func (r *draftRepository) FindForUser(ctx context.Context, id, userID string) (*models.DealDraft, error) {
	var draft models.DealDraft
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) ListByUser(ctx context.Context, userID string) ([]models.DealDraft, error) {
	var drafts []models.DealDraft
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&drafts).Error
	return drafts, err
}

func (r *draftRepository) Update(ctx context.Context, draft *models.DealDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

func (r *draftRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.DealDraft{}, "id = ?", id).Error
}

// DeleteStale removes abandoned drafts. Submitted drafts are kept for the
// same window so the success screen can still resolve them.
func (r *draftRepository) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("updated_at < ?", olderThan).
		Delete(&models.DealDraft{})
	return res.RowsAffected, res.Error
}
