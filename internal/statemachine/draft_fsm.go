package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/dealdesk/dealdesk-api/internal/models"
)

// DraftFSM wraps a deal draft with its authoring state machine. New deals go
// through the confirmation gate (editing → previewing → submitting); edits
// submit straight from editing. A failed submission returns the draft to
// editing so the user can retry with the form intact.
type DraftFSM struct {
	draft *models.DealDraft
	fsm   *fsm.FSM
}

// NewDraftFSM creates a state machine positioned at the draft's current state.
func NewDraftFSM(draft *models.DealDraft) *DraftFSM {
	d := &DraftFSM{draft: draft}

	d.fsm = fsm.NewFSM(
		draft.State,
		fsm.Events{
			// editing → previewing (confirmation gate opens)
			{Name: "preview", Src: []string{models.DraftStateEditing}, Dst: models.DraftStatePreviewing},

			// previewing → editing (back to edit, snapshot discarded)
			{Name: "back", Src: []string{models.DraftStatePreviewing}, Dst: models.DraftStateEditing},

			// editing/previewing → submitting (dispatch in flight)
			{Name: "submit", Src: []string{models.DraftStateEditing, models.DraftStatePreviewing}, Dst: models.DraftStateSubmitting},

			// submitting → submitted
			{Name: "complete", Src: []string{models.DraftStateSubmitting}, Dst: models.DraftStateSubmitted},

			// submitting → editing (upstream failure, form preserved)
			{Name: "fail", Src: []string{models.DraftStateSubmitting}, Dst: models.DraftStateEditing},
		},
		fsm.Callbacks{},
	)

	return d
}

// Preview transitions the draft into the confirmation gate
func (d *DraftFSM) Preview(ctx context.Context) error {
	if !d.draft.MayPreview() {
		return fmt.Errorf("draft cannot be previewed in current state: %s", d.draft.State)
	}

	if err := d.fsm.Event(ctx, "preview"); err != nil {
		return fmt.Errorf("failed to preview draft: %w", err)
	}

	d.draft.State = d.fsm.Current()
	return nil
}

// Back returns the draft from the confirmation gate to editing
func (d *DraftFSM) Back(ctx context.Context) error {
	if !d.draft.MayBack() {
		return fmt.Errorf("draft is not previewing: %s", d.draft.State)
	}

	if err := d.fsm.Event(ctx, "back"); err != nil {
		return fmt.Errorf("failed to leave preview: %w", err)
	}

	d.draft.State = d.fsm.Current()
	return nil
}

// Submit marks the draft as dispatching. While submitting, further submits
// are rejected, which is what keeps double-clicks from producing duplicate
// deals.
func (d *DraftFSM) Submit(ctx context.Context) error {
	if !d.draft.MaySubmit() {
		return fmt.Errorf("draft cannot be submitted in current state: %s", d.draft.State)
	}

	if err := d.fsm.Event(ctx, "submit"); err != nil {
		return fmt.Errorf("failed to submit draft: %w", err)
	}

	d.draft.State = d.fsm.Current()
	return nil
}

// Complete marks the dispatch as succeeded
func (d *DraftFSM) Complete(ctx context.Context) error {
	if err := d.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete draft: %w", err)
	}

	d.draft.State = d.fsm.Current()
	return nil
}

// Fail returns a dispatching draft to editing after an upstream failure
func (d *DraftFSM) Fail(ctx context.Context) error {
	if err := d.fsm.Event(ctx, "fail"); err != nil {
		return fmt.Errorf("failed to reset draft: %w", err)
	}

	d.draft.State = d.fsm.Current()
	return nil
}

// Current returns the current state
func (d *DraftFSM) Current() string {
	return d.fsm.Current()
}

// Can checks if a transition is possible
func (d *DraftFSM) Can(event string) bool {
	return d.fsm.Can(event)
}
