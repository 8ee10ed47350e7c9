package dealform

import (
	"github.com/dealdesk/dealdesk-api/internal/refdata"
)

// Patch is the set of derived field writes produced by DeriveDefaults.
// A nil pointer means "leave the field alone".
type Patch struct {
	StatusID              *string
	PurchaseStatusID      *string
	AgentCommissionTypeID *string

	// Warnings carries non-fatal derivation anomalies, e.g. a manual
	// commission rate with no override commission type configured.
	Warnings []string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.StatusID == nil && p.PurchaseStatusID == nil && p.AgentCommissionTypeID == nil
}

// DeriveDefaults computes the automatic field writes for the current form
// state. It is a pure function: callers apply the returned patch, which keeps
// the precedence rules auditable. User-entered values always win, with one
// exception: a manually entered commission rate forces the commission type to
// the "override" entry.
//
// loginCommissionTypeID is the commission type recorded for the agent at
// login; it pins agentCommissionTypeId for agent-created deals.
func DeriveDefaults(role Role, mode Mode, loginCommissionTypeID string, f *Form, refs *refdata.Set) Patch {
	var patch Patch

	// Status default: authoring roles creating a new deal get "submitted"
	// (else "new", else the first status), but only if nothing is set yet.
	if mode == ModeCreate && role.AppliesFormDefaults() && f.StatusID == "" && refs.Loaded(refdata.CategoryStatuses) {
		if opt, ok := refs.FindNameContains(refdata.CategoryStatuses, "submitted"); ok {
			patch.StatusID = &opt.ID
		} else if opt, ok := refs.FindNameContains(refdata.CategoryStatuses, "new"); ok {
			patch.StatusID = &opt.ID
		} else if opt, ok := refs.First(refdata.CategoryStatuses); ok {
			patch.StatusID = &opt.ID
		}
	}

	// Purchase status follows the booking date for authoring roles in create
	// mode: a non-empty booking date fills the "booking" purchase status when
	// none is chosen.
	if mode == ModeCreate && role.AppliesFormDefaults() && f.BookingDate != "" && f.PurchaseStatusID == "" &&
		refs.Loaded(refdata.CategoryPurchaseStatuses) {
		if opt, ok := refs.FindNameContains(refdata.CategoryPurchaseStatuses, "booking"); ok {
			patch.PurchaseStatusID = &opt.ID
		}
	}

	// Agent commission type: pinned to the login-recorded value for new
	// agent deals. A manual rate supersedes the pin by switching to the
	// override commission type.
	if role == RoleAgent {
		if f.AgentCommissionRate != "" && refs.Loaded(refdata.CategoryCommissionTypes) {
			if opt, ok := refs.FindNameContains(refdata.CategoryCommissionTypes, "override"); ok {
				patch.AgentCommissionTypeID = &opt.ID
			} else {
				patch.Warnings = append(patch.Warnings,
					"manual commission rate entered but no override commission type exists; commission type left unchanged")
			}
		} else if mode == ModeCreate && loginCommissionTypeID != "" {
			pinned := loginCommissionTypeID
			patch.AgentCommissionTypeID = &pinned
		}
	}

	return patch
}

// ApplyPatch writes the derived values into the form.
func (f *Form) ApplyPatch(p Patch) {
	if p.StatusID != nil {
		f.StatusID = *p.StatusID
	}
	if p.PurchaseStatusID != nil {
		f.PurchaseStatusID = *p.PurchaseStatusID
	}
	if p.AgentCommissionTypeID != nil {
		f.AgentCommissionTypeID = *p.AgentCommissionTypeID
	}
}
