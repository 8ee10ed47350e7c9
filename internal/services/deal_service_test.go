package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dealdesk/dealdesk-api/internal/models"
	"github.com/dealdesk/dealdesk-api/internal/repository"
	"github.com/dealdesk/dealdesk-api/internal/session"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
)

type mockDraftRepo struct {
	repository.DraftRepository
	drafts map[string]*models.DealDraft
}

func newMockDraftRepo() *mockDraftRepo {
	return &mockDraftRepo{drafts: make(map[string]*models.DealDraft)}
}

func (m *mockDraftRepo) Create(ctx context.Context, draft *models.DealDraft) error {
	copied := *draft
	m.drafts[draft.ID] = &copied
	return nil
}

func (m *mockDraftRepo) FindForUser(ctx context.Context, id, userID string) (*models.DealDraft, error) {
	draft, ok := m.drafts[id]
	if !ok || draft.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *draft
	return &copied, nil
}

func (m *mockDraftRepo) ListByUser(ctx context.Context, userID string) ([]models.DealDraft, error) {
	var out []models.DealDraft
	for _, draft := range m.drafts {
		if draft.UserID == userID {
			out = append(out, *draft)
		}
	}
	return out, nil
}

func (m *mockDraftRepo) Update(ctx context.Context, draft *models.DealDraft) error {
	copied := *draft
	m.drafts[draft.ID] = &copied
	return nil
}

func (m *mockDraftRepo) Delete(ctx context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

type mockNotificationRepo struct {
	repository.NotificationRepository
	created []*models.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) types() []string {
	var out []string
	for _, n := range m.created {
		if n.NotificationType != nil {
			out = append(out, *n.NotificationType)
		}
	}
	return out
}

type mockAuditRepo struct {
	repository.AuditRepository
	entries []*models.AuditEntry
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) actions() []string {
	var out []string
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

type mockDealClient struct {
	createCalls int
	updateCalls int
	getCalls    int

	lastCreatePayload *upstream.DealPayload
	lastUpdatePayload *upstream.DealPayload
	lastUpdateID      string

	createErr error
	getRecord map[string]any
}

func (m *mockDealClient) CreateDeal(ctx context.Context, token string, payload *upstream.DealPayload) (*upstream.DealRecord, error) {
	m.createCalls++
	m.lastCreatePayload = payload
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &upstream.DealRecord{ID: "deal-new"}, nil
}

func (m *mockDealClient) UpdateDeal(ctx context.Context, token, id string, payload *upstream.DealPayload) (*upstream.DealRecord, error) {
	m.updateCalls++
	m.lastUpdateID = id
	m.lastUpdatePayload = payload
	return &upstream.DealRecord{ID: id}, nil
}

func (m *mockDealClient) GetDeal(ctx context.Context, token, id string) (map[string]any, error) {
	m.getCalls++
	if m.getRecord != nil {
		return m.getRecord, nil
	}
	return map[string]any{"id": id}, nil
}

// stubFiltersClient serves a fixed lookup snapshot.
type stubFiltersClient struct{}

func (stubFiltersClient) Filters(ctx context.Context, token, category string) ([]map[string]any, error) {
	switch category {
	case "statuses":
		return []map[string]any{
			{"id": "st-new", "name": "New"},
			{"id": "st-submitted", "name": "Submitted"},
		}, nil
	case "purchase-statuses":
		return []map[string]any{{"id": "ps-booking", "name": "Booking"}}, nil
	case "commission-types":
		return []map[string]any{
			{"id": "ct-std", "name": "Standard"},
			{"id": "ct-ovr", "name": "Override"},
		}, nil
	case "developers":
		return []map[string]any{{"id": "dev-1", "name": "Emaar"}}, nil
	case "projects":
		return []map[string]any{{"id": "proj-1", "name": "Marina Heights", "developerName": "Emaar"}}, nil
	default:
		return []map[string]any{}, nil
	}
}

type dealServiceFixture struct {
	svc           *DealService
	draftRepo     *mockDraftRepo
	notifications *mockNotificationRepo
	audits        *mockAuditRepo
	client        *mockDealClient
}

func newDealServiceFixture(t *testing.T) *dealServiceFixture {
	t.Helper()

	draftRepo := newMockDraftRepo()
	notificationRepo := &mockNotificationRepo{}
	auditRepo := &mockAuditRepo{}
	client := &mockDealClient{}

	filters := NewFilterService(stubFiltersClient{}, time.Hour)
	_, err := filters.Refetch(context.Background(), "warm")
	require.NoError(t, err)

	svc := NewDealService(
		draftRepo,
		client,
		filters,
		NewNotificationService(notificationRepo),
		NewAuditService(auditRepo, nil),
		nil,
		nil,
	)
	return &dealServiceFixture{
		svc:           svc,
		draftRepo:     draftRepo,
		notifications: notificationRepo,
		audits:        auditRepo,
		client:        client,
	}
}

func agentSession() *session.Session {
	return &session.Session{
		UserID:           "u-agent",
		Username:         "agent1",
		Role:             "agent",
		UpstreamToken:    "tok",
		CommissionTypeID: "ct-std",
	}
}

func sessionWithRole(role string) *session.Session {
	return &session.Session{UserID: "u-" + role, Role: role, UpstreamToken: "tok"}
}

func fillValidForm(t *testing.T, f *dealServiceFixture, sess *session.Session, draftID string) {
	t.Helper()
	_, _, err := f.svc.UpdateFields(context.Background(), sess, draftID, map[string]string{
		"developerId":    "dev-1",
		"projectId":      "proj-1",
		"propertyTypeId": "pt-1",
		"unitTypeId":     "ut-1",
		"sellerName":     "Seller One",
		"sellerPhone":    "+971501234567",
		"buyerName":      "Buyer One",
		"buyerPhone":     "0501234567",
		"salesValue":     "1500000",
		"bookingDate":    "2026-03-01",
	})
	require.NoError(t, err)
}

func TestDealService_ComplianceCannotCreate(t *testing.T) {
	f := newDealServiceFixture(t)

	_, err := f.svc.CreateDraft(context.Background(), sessionWithRole("compliance"), nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The rejection happened before any upstream call.
	assert.Zero(t, f.client.getCalls)
	assert.Zero(t, f.client.createCalls)
	assert.Contains(t, f.notifications.types(), models.NotificationTypePermissionDenied)
	assert.Contains(t, f.audits.actions(), models.AuditActionPermissionDenied)
}

func TestDealService_AgentAndComplianceCannotEdit(t *testing.T) {
	dealID := "abc123"
	for _, role := range []string{"agent", "compliance"} {
		f := newDealServiceFixture(t)
		_, err := f.svc.CreateDraft(context.Background(), sessionWithRole(role), &dealID)
		assert.ErrorIs(t, err, ErrPermissionDenied, "role %s", role)
		assert.Zero(t, f.client.getCalls, "role %s must not reach the network", role)
	}
}

func TestDealService_AgentCreateAppliesDefaults(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()

	draft, err := f.svc.CreateDraft(context.Background(), sess, nil)
	require.NoError(t, err)

	form, err := draft.Form()
	require.NoError(t, err)
	assert.Equal(t, "st-submitted", form.StatusID)
	assert.Equal(t, "ct-std", form.AgentCommissionTypeID, "login commission type pinned")
}

func TestDealService_FullCreateFlow(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)
	fillValidForm(t, f, sess, draft.ID)

	summary, err := f.svc.Preview(ctx, sess, draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Sections)

	stored, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)
	assert.Equal(t, models.DraftStatePreviewing, stored.State)
	assert.NotNil(t, stored.PendingJSON)

	result, err := f.svc.Confirm(ctx, sess, draft.ID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "deal-new", result.DealID)

	require.Equal(t, 1, f.client.createCalls)
	payload := f.client.lastCreatePayload
	assert.Equal(t, "u-agent", payload.AgentID, "agent submits as themselves")
	assert.Nil(t, payload.CloseDate, "agent creates omit the close date")
	assert.NotNil(t, payload.BookingDate)
	assert.Equal(t, "st-submitted", payload.StatusID)
	assert.Equal(t, "ps-booking", payload.PurchaseStatusID, "booking date autofills purchase status")
	assert.Equal(t, float64(1500000), payload.DealValue)

	stored, _ = f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)
	assert.Equal(t, models.DraftStateSubmitted, stored.State)
	require.NotNil(t, stored.RemoteDealID)
	assert.Equal(t, "deal-new", *stored.RemoteDealID)

	assert.Contains(t, f.notifications.types(), models.NotificationTypeDealSubmitted)
	assert.Contains(t, f.audits.actions(), models.AuditActionDealSubmitted)
}

func TestDealService_PreviewBackRoundTrip(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)
	fillValidForm(t, f, sess, draft.ID)

	before, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)

	_, err = f.svc.Preview(ctx, sess, draft.ID)
	require.NoError(t, err)
	_, err = f.svc.Back(ctx, sess, draft.ID)
	require.NoError(t, err)

	after, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)
	assert.Equal(t, before.FormJSON, after.FormJSON, "form unchanged by preview/back")
	assert.Nil(t, after.PendingJSON, "snapshot discarded")
	assert.Equal(t, models.DraftStateEditing, after.State)
	assert.Zero(t, f.client.createCalls)
}

func TestDealService_PreviewValidationFailure(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)

	_, err = f.svc.Preview(ctx, sess, draft.ID)
	require.Error(t, err)

	validationErr, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, validationErr.Fields, "developerId")

	stored, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)
	assert.Equal(t, models.DraftStateEditing, stored.State)
}

func TestDealService_UpstreamFailureReturnsToEditing(t *testing.T) {
	f := newDealServiceFixture(t)
	f.client.createErr = &upstream.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "duplicate unit"}
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)
	fillValidForm(t, f, sess, draft.ID)

	_, err = f.svc.Preview(ctx, sess, draft.ID)
	require.NoError(t, err)

	before, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)

	_, err = f.svc.Confirm(ctx, sess, draft.ID)
	require.Error(t, err)
	assert.Equal(t, "duplicate unit", err.Error())

	after, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)
	assert.Equal(t, models.DraftStateEditing, after.State, "failure returns to editing")
	assert.Equal(t, before.FormJSON, after.FormJSON, "form preserved for retry")
	assert.Contains(t, f.notifications.types(), models.NotificationTypeSubmitFailed)
	assert.Contains(t, f.audits.actions(), models.AuditActionSubmitFailed)
}

func TestDealService_FinanceEditFlow(t *testing.T) {
	f := newDealServiceFixture(t)
	f.client.getRecord = map[string]any{
		"id":          "abc123",
		"developerId": "dev-1",
		"projectId":   "proj-1",
		"dealValue":   float64(2000000),
		"closeDate":   "2026-01-15T00:00:00Z",
		"seller":      map[string]any{"name": "Seller One", "phone": "+971501234567"},
		"buyer":       map[string]any{"name": "Buyer One", "phone": "0501234567"},
	}
	sess := sessionWithRole("finance")
	ctx := context.Background()
	dealID := "abc123"

	draft, err := f.svc.CreateDraft(ctx, sess, &dealID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.client.getCalls)

	form, err := draft.Form()
	require.NoError(t, err)
	assert.Equal(t, "dev-1", form.DeveloperID, "hydrated from the record")
	assert.Equal(t, "2000000", form.SalesValue)
	assert.Equal(t, "2026-01-15", form.CloseDate)

	_, _, err = f.svc.UpdateFields(ctx, sess, draft.ID, map[string]string{
		"propertyTypeId": "pt-1",
		"unitTypeId":     "ut-1",
		"salesValue":     "2500000",
	})
	require.NoError(t, err)

	result, err := f.svc.Submit(ctx, sess, draft.ID)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "abc123", result.DealID)

	require.Equal(t, 1, f.client.updateCalls)
	assert.Equal(t, "abc123", f.client.lastUpdateID)
	payload := f.client.lastUpdatePayload
	assert.NotNil(t, payload.CloseDate, "back-office edits always carry a close date")
	assert.Equal(t, float64(2500000), payload.DealValue)
	assert.Equal(t, "u-finance", payload.AgentID)

	assert.Contains(t, f.notifications.types(), models.NotificationTypeDealUpdated)
	assert.Contains(t, f.audits.actions(), models.AuditActionDealUpdated)
}

func TestDealService_EditDraftCannotPreview(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := sessionWithRole("finance")
	ctx := context.Background()
	dealID := "abc123"

	draft, err := f.svc.CreateDraft(ctx, sess, &dealID)
	require.NoError(t, err)

	_, err = f.svc.Preview(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "the confirmation gate only exists for new deals")
}

func TestDealService_NewDraftCannotSkipGate(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)
	fillValidForm(t, f, sess, draft.ID)

	_, err = f.svc.Submit(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Zero(t, f.client.createCalls)
}

func TestDealService_SalesAdminMissingAgent(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := sessionWithRole("sales_admin")
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)
	fillValidForm(t, f, sess, draft.ID)
	// No agentId chosen in the form.

	_, err = f.svc.Preview(ctx, sess, draft.ID)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, ErrMissingAgent)
	assert.Zero(t, f.client.createCalls, "dispatch aborted before the upstream call")

	stored, _ := f.draftRepo.FindForUser(ctx, draft.ID, sess.UserID)
	assert.Equal(t, models.DraftStateEditing, stored.State)
}

func TestDealService_SalesAdminSubmitsOnBehalf(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := sessionWithRole("sales_admin")
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)
	fillValidForm(t, f, sess, draft.ID)
	_, _, err = f.svc.UpdateFields(ctx, sess, draft.ID, map[string]string{"agentId": "u-agent-9"})
	require.NoError(t, err)

	_, err = f.svc.Preview(ctx, sess, draft.ID)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, sess, draft.ID)
	require.NoError(t, err)

	assert.Equal(t, "u-agent-9", f.client.lastCreatePayload.AgentID)
}

func TestDealService_DraftsAreOwnerScoped(t *testing.T) {
	f := newDealServiceFixture(t)
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, agentSession(), nil)
	require.NoError(t, err)

	_, err = f.svc.GetDraft(ctx, sessionWithRole("admin"), draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDealService_UpdateUnknownFieldRejected(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)

	_, _, err = f.svc.UpdateFields(ctx, sess, draft.ID, map[string]string{"notAField": "x"})
	require.Error(t, err)
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestDealService_DeveloperChangeClearsProjectThroughUpdate(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)

	_, _, err = f.svc.UpdateFields(ctx, sess, draft.ID, map[string]string{"developerId": "dev-1"})
	require.NoError(t, err)
	_, _, err = f.svc.UpdateFields(ctx, sess, draft.ID, map[string]string{"projectId": "proj-1"})
	require.NoError(t, err)

	updated, _, err := f.svc.UpdateFields(ctx, sess, draft.ID, map[string]string{"developerId": "dev-2"})
	require.NoError(t, err)

	form, err := updated.Form()
	require.NoError(t, err)
	assert.Equal(t, "dev-2", form.DeveloperID)
	assert.Equal(t, "", form.ProjectID)
}

func TestDealService_Discard(t *testing.T) {
	f := newDealServiceFixture(t)
	sess := agentSession()
	ctx := context.Background()

	draft, err := f.svc.CreateDraft(ctx, sess, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Discard(ctx, sess, draft.ID))

	_, err = f.svc.GetDraft(ctx, sess, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
