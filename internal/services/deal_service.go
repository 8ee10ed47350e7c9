package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealdesk/dealdesk-api/internal/dealform"
	"github.com/dealdesk/dealdesk-api/internal/jobs"
	"github.com/dealdesk/dealdesk-api/internal/models"
	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/internal/session"
	"github.com/dealdesk/dealdesk-api/internal/statemachine"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
	"github.com/dealdesk/dealdesk-api/pkg/logger"
)

// DealClient is the slice of the core API client the deal service needs.
type DealClient interface {
	CreateDeal(ctx context.Context, token string, payload *upstream.DealPayload) (*upstream.DealRecord, error)
	UpdateDeal(ctx context.Context, token, id string, payload *upstream.DealPayload) (*upstream.DealRecord, error)
	GetDeal(ctx context.Context, token, id string) (map[string]any, error)
}

// DealService owns the deal authoring workflow: draft state, derived field
// defaults, the preview/confirmation gate and the submission dispatch.
// Permission checks always run before any network call.
type DealService struct {
	draftRepo     repository.DraftRepository
	client        DealClient
	filters       *FilterService
	notifications *NotificationService
	audits        *AuditService
	emails        *EmailService
	worker        *jobs.Worker
}

// NewDealService creates a new deal service
func NewDealService(
	draftRepo repository.DraftRepository,
	client DealClient,
	filters *FilterService,
	notifications *NotificationService,
	audits *AuditService,
	emails *EmailService,
	worker *jobs.Worker,
) *DealService {
	return &DealService{
		draftRepo:     draftRepo,
		client:        client,
		filters:       filters,
		notifications: notifications,
		audits:        audits,
		emails:        emails,
		worker:        worker,
	}
}

// SubmitResult reports a successful dispatch to the caller.
type SubmitResult struct {
	DealID  string `json:"deal_id"`
	Created bool   `json:"created"`
}

// CreateDraft starts a new authoring session. A nil remoteDealID creates a
// new deal; otherwise the draft is hydrated from the existing record (edit
// flow). Role/mode combinations that may never submit are rejected here
// already, before any upstream call.
func (s *DealService) CreateDraft(ctx context.Context, sess *session.Session, remoteDealID *string) (*models.DealDraft, error) {
	role, err := dealform.ParseRole(sess.Role)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if remoteDealID == nil {
		if !role.CanCreateDeals() {
			return nil, s.deny(ctx, sess, nil, "your role is not allowed to create deals")
		}
	} else {
		if !role.CanEditDeals() {
			return nil, s.deny(ctx, sess, remoteDealID, "your role is not allowed to edit deals")
		}
	}

	form := &dealform.Form{}
	if remoteDealID != nil {
		record, err := s.client.GetDeal(ctx, sess.UpstreamToken, *remoteDealID)
		if err != nil {
			return nil, err
		}
		form = hydrateForm(record)
	} else {
		// Authoring defaults (status, commission pin) apply from the start
		// when the lookups are already cached; otherwise they land with the
		// first field update after the lookups load.
		patch := dealform.DeriveDefaults(role, dealform.ModeCreate, sess.CommissionTypeID, form, s.filters.Cached())
		form.ApplyPatch(patch)
	}

	draft := &models.DealDraft{
		ID:           uuid.NewString(),
		UserID:       sess.UserID,
		Role:         role.String(),
		RemoteDealID: remoteDealID,
		State:        models.DraftStateEditing,
	}
	if err := draft.SetForm(form); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft returns a draft owned by the session user.
func (s *DealService) GetDraft(ctx context.Context, sess *session.Session, id string) (*models.DealDraft, error) {
	draft, err := s.draftRepo.FindForUser(ctx, id, sess.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// UpdateFields writes user input into the draft form. Each write is
// sanitized, dependent fields are reset (developer change clears project),
// and the derivation pass runs afterwards so automatic defaults land as a
// side effect of the edit, not as a separate user action.
func (s *DealService) UpdateFields(ctx context.Context, sess *session.Session, id string, fields map[string]string) (*models.DealDraft, []string, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, nil, err
	}
	if draft.State != models.DraftStateEditing {
		return nil, nil, ErrInvalidState
	}

	form, err := draft.Form()
	if err != nil {
		return nil, nil, err
	}

	// The developer write goes first: it clears the dependent project
	// selection, and a batch may legitimately set both.
	if value, ok := fields["developerId"]; ok {
		form.Set("developerId", value)
	}
	for field, value := range fields {
		if field == "developerId" {
			continue
		}
		if !form.Set(field, value) {
			return nil, nil, &ValidationError{Fields: map[string]string{field: "unknown field"}}
		}
	}

	role, err := dealform.ParseRole(draft.Role)
	if err != nil {
		return nil, nil, ErrUnauthorized
	}
	patch := dealform.DeriveDefaults(role, draft.Mode(), sess.CommissionTypeID, form, s.filters.Cached())
	form.ApplyPatch(patch)
	for _, warning := range patch.Warnings {
		logger.Warn("Derivation warning", "draft_id", draft.ID, "warning", warning)
	}

	if err := draft.SetForm(form); err != nil {
		return nil, nil, err
	}
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, patch.Warnings, nil
}

// Preview validates the draft and opens the confirmation gate. The gate only
// exists for new deals; edit drafts dispatch directly through Submit. The
// current form values are frozen into a pending snapshot so later edits
// cannot leak into a confirmed submission.
func (s *DealService) Preview(ctx context.Context, sess *session.Session, id string) (*dealform.Summary, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !draft.IsNew() {
		return nil, ErrInvalidState
	}

	role, err := dealform.ParseRole(sess.Role)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !role.CanCreateDeals() {
		return nil, s.deny(ctx, sess, nil, "your role is not allowed to create deals")
	}

	form, err := draft.Form()
	if err != nil {
		return nil, err
	}
	if fieldErrs := form.Validate(); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	refs, err := s.filters.Snapshot(ctx, sess.UpstreamToken)
	if err != nil {
		return nil, err
	}

	pending := form.Clone()
	if err := draft.SetPending(pending); err != nil {
		return nil, err
	}
	if err := statemachine.NewDraftFSM(draft).Preview(ctx); err != nil {
		return nil, ErrInvalidState
	}
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, err
	}

	return dealform.BuildSummary(pending, refs), nil
}

// Back leaves the confirmation gate, discarding the pending snapshot. The
// editable form is untouched.
func (s *DealService) Back(ctx context.Context, sess *session.Session, id string) (*models.DealDraft, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := statemachine.NewDraftFSM(draft).Back(ctx); err != nil {
		return nil, ErrInvalidState
	}
	if err := draft.SetPending(nil); err != nil {
		return nil, err
	}
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Confirm dispatches a previewed new deal using the frozen snapshot.
func (s *DealService) Confirm(ctx context.Context, sess *session.Session, id string) (*SubmitResult, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !draft.IsNew() || draft.State != models.DraftStatePreviewing {
		return nil, ErrInvalidState
	}

	pending, err := draft.Pending()
	if err != nil || pending == nil {
		return nil, ErrInvalidState
	}
	return s.dispatch(ctx, sess, draft, pending)
}

// Submit dispatches an edit draft directly, without the gate. New deals must
// go through Preview/Confirm. Agents and compliance may never submit edits;
// the check precedes all other logic.
func (s *DealService) Submit(ctx context.Context, sess *session.Session, id string) (*SubmitResult, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if draft.IsNew() {
		return nil, ErrInvalidState
	}

	role, err := dealform.ParseRole(sess.Role)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !role.CanEditDeals() {
		return nil, s.deny(ctx, sess, draft.RemoteDealID, "your role is not allowed to edit deals")
	}

	form, err := draft.Form()
	if err != nil {
		return nil, err
	}
	if fieldErrs := form.Validate(); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}
	return s.dispatch(ctx, sess, draft, form)
}

// Summary renders the draft as a read-only summary without touching its
// state, used for the printable download. The pending snapshot wins when one
// exists.
func (s *DealService) Summary(ctx context.Context, sess *session.Session, id string) (*dealform.Summary, error) {
	draft, err := s.GetDraft(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	form, err := draft.Pending()
	if err != nil {
		return nil, err
	}
	if form == nil {
		if form, err = draft.Form(); err != nil {
			return nil, err
		}
	}

	refs, err := s.filters.Snapshot(ctx, sess.UpstreamToken)
	if err != nil {
		return nil, err
	}
	return dealform.BuildSummary(form, refs), nil
}

// Discard deletes a draft without submitting.
func (s *DealService) Discard(ctx context.Context, sess *session.Session, id string) error {
	if _, err := s.GetDraft(ctx, sess, id); err != nil {
		return err
	}
	return s.draftRepo.Delete(ctx, id)
}

// ListDrafts returns the session user's drafts.
func (s *DealService) ListDrafts(ctx context.Context, sess *session.Session) ([]models.DealDraft, error) {
	return s.draftRepo.ListByUser(ctx, sess.UserID)
}

// PruneStale removes drafts untouched for longer than ttl.
func (s *DealService) PruneStale(ctx context.Context, ttl time.Duration) (int64, error) {
	return s.draftRepo.DeleteStale(ctx, time.Now().Add(-ttl))
}

// dispatch performs the single create/update round trip. The draft sits in
// the submitting state for the duration, which rejects concurrent submits of
// the same draft. Failures return the draft to editing with the form intact;
// nothing is retried automatically.
func (s *DealService) dispatch(ctx context.Context, sess *session.Session, draft *models.DealDraft, form *dealform.Form) (*SubmitResult, error) {
	role, err := dealform.ParseRole(draft.Role)
	if err != nil {
		return nil, ErrUnauthorized
	}

	machine := statemachine.NewDraftFSM(draft)
	if err := machine.Submit(ctx); err != nil {
		return nil, ErrInvalidState
	}
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		return nil, err
	}

	payload, err := s.buildPayload(sess, role, draft.Mode(), form)
	if err != nil {
		s.abort(ctx, sess, draft, machine, err.Error())
		return nil, err
	}

	var record *upstream.DealRecord
	created := draft.IsNew()
	if created {
		record, err = s.client.CreateDeal(ctx, sess.UpstreamToken, payload)
	} else {
		record, err = s.client.UpdateDeal(ctx, sess.UpstreamToken, *draft.RemoteDealID, payload)
	}
	if err != nil {
		s.abort(ctx, sess, draft, machine, err.Error())
		s.audits.Record(&models.AuditEntry{
			UserID:       sess.UserID,
			Role:         draft.Role,
			Action:       models.AuditActionSubmitFailed,
			DraftID:      &draft.ID,
			RemoteDealID: draft.RemoteDealID,
			Detail:       strPtr(err.Error()),
		})
		return nil, err
	}

	if err := machine.Complete(ctx); err != nil {
		return nil, ErrInvalidState
	}
	if err := draft.SetPending(nil); err != nil {
		return nil, err
	}
	dealID := record.ID
	if created {
		draft.RemoteDealID = &dealID
	} else if dealID == "" {
		dealID = *draft.RemoteDealID
	}
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		logger.Error("Failed to persist submitted draft", "draft_id", draft.ID, "error", err)
	}

	action := models.AuditActionDealUpdated
	if created {
		action = models.AuditActionDealSubmitted
		s.notifications.DealSubmitted(ctx, sess.UserID, dealID)
	} else {
		s.notifications.DealUpdated(ctx, sess.UserID, dealID)
	}
	s.audits.Record(&models.AuditEntry{
		UserID:       sess.UserID,
		Role:         draft.Role,
		Action:       action,
		DraftID:      &draft.ID,
		RemoteDealID: &dealID,
	})

	if s.emails != nil && s.worker != nil && created {
		email, name := sess.Email, sess.Name
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emails.SendDealSubmitted(ctx, email, name, dealID)
		})
	}

	return &SubmitResult{DealID: dealID, Created: created}, nil
}

// abort returns a failed dispatch to the editing state and records the
// failure as a notification. The form stays populated for a manual retry.
func (s *DealService) abort(ctx context.Context, sess *session.Session, draft *models.DealDraft, machine *statemachine.DraftFSM, message string) {
	if err := machine.Fail(ctx); err != nil {
		logger.Error("Failed to reset draft after dispatch error", "draft_id", draft.ID, "error", err)
	}
	_ = draft.SetPending(nil)
	if err := s.draftRepo.Update(ctx, draft); err != nil {
		logger.Error("Failed to persist draft after dispatch error", "draft_id", draft.ID, "error", err)
	}
	s.notifications.SubmitFailed(ctx, sess.UserID, message)
}

// deny records a permission rejection and returns ErrPermissionDenied.
// No network call has happened at this point.
func (s *DealService) deny(ctx context.Context, sess *session.Session, remoteDealID *string, message string) error {
	s.notifications.PermissionDenied(ctx, sess.UserID, message)
	s.audits.Record(&models.AuditEntry{
		UserID:       sess.UserID,
		Role:         sess.Role,
		Action:       models.AuditActionPermissionDenied,
		RemoteDealID: remoteDealID,
		Detail:       strPtr(message),
	})
	return ErrPermissionDenied
}

func strPtr(s string) *string {
	return &s
}
