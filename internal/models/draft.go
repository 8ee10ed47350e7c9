package models

import (
	"encoding/json"
	"time"

	"github.com/dealdesk/dealdesk-api/internal/dealform"
)

// DealDraft is a server-side deal authoring session: the form state of one
// deal being created or edited by one user. Drafts are scratch space; the
// canonical record always lives in the core API.
type DealDraft struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"not null;index" json:"user_id"`
	Role         string    `gorm:"not null" json:"role"`
	RemoteDealID *string   `gorm:"index" json:"remote_deal_id"` // nil means the draft creates a new deal
	State        string    `gorm:"default:editing;index" json:"state"`
	FormJSON     string    `gorm:"type:text;not null" json:"-"`
	PendingJSON  *string   `gorm:"type:text" json:"-"` // frozen snapshot while previewing
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for DealDraft
func (DealDraft) TableName() string {
	return "deal_drafts"
}

// Draft state constants
const (
	DraftStateEditing    = "editing"
	DraftStatePreviewing = "previewing"
	DraftStateSubmitting = "submitting"
	DraftStateSubmitted  = "submitted"
)

// IsNew returns true when the draft creates a new deal rather than editing
// an existing one.
func (d *DealDraft) IsNew() bool {
	return d.RemoteDealID == nil
}

// Mode returns the authoring mode implied by the remote deal id.
func (d *DealDraft) Mode() dealform.Mode {
	if d.IsNew() {
		return dealform.ModeCreate
	}
	return dealform.ModeEdit
}

// MayPreview returns true if the draft can open the confirmation gate
func (d *DealDraft) MayPreview() bool {
	return d.State == DraftStateEditing
}

// MayBack returns true if the draft can leave the confirmation gate
func (d *DealDraft) MayBack() bool {
	return d.State == DraftStatePreviewing
}

// MaySubmit returns true if the draft can be dispatched. New deals submit
// from the gate; edits submit directly from the form.
func (d *DealDraft) MaySubmit() bool {
	return d.State == DraftStateEditing || d.State == DraftStatePreviewing
}

// Form deserializes the editable form state.
func (d *DealDraft) Form() (*dealform.Form, error) {
	var f dealform.Form
	if err := json.Unmarshal([]byte(d.FormJSON), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SetForm serializes the editable form state.
func (d *DealDraft) SetForm(f *dealform.Form) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	d.FormJSON = string(data)
	return nil
}

// Pending deserializes the frozen preview snapshot, or nil when not
// previewing.
func (d *DealDraft) Pending() (*dealform.Form, error) {
	if d.PendingJSON == nil {
		return nil, nil
	}
	var f dealform.Form
	if err := json.Unmarshal([]byte(*d.PendingJSON), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SetPending freezes a snapshot for the confirmation gate; nil clears it.
func (d *DealDraft) SetPending(f *dealform.Form) error {
	if f == nil {
		d.PendingJSON = nil
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	s := string(data)
	d.PendingJSON = &s
	return nil
}

// DraftResponse is the JSON response format for deal drafts
type DraftResponse struct {
	ID           string         `json:"id"`
	State        string         `json:"state"`
	RemoteDealID *string        `json:"remote_deal_id"`
	Form         *dealform.Form `json:"form"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ToResponse converts DealDraft to DraftResponse
func (d *DealDraft) ToResponse() (*DraftResponse, error) {
	form, err := d.Form()
	if err != nil {
		return nil, err
	}
	return &DraftResponse{
		ID:           d.ID,
		State:        d.State,
		RemoteDealID: d.RemoteDealID,
		Form:         form,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
