package dealform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealdesk/dealdesk-api/internal/refdata"
)

func refsWith(categories map[string][]refdata.Option) *refdata.Set {
	return refdata.NewSet(categories)
}

func TestDeriveDefaults_StatusPrefersSubmitted(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryStatuses: {
			{ID: "s1", Name: "New"},
			{ID: "s2", Name: "Submitted"},
		},
	})

	patch := DeriveDefaults(RoleAgent, ModeCreate, "", &Form{}, refs)
	assert.NotNil(t, patch.StatusID)
	assert.Equal(t, "s2", *patch.StatusID)
}

func TestDeriveDefaults_StatusFallsBackToNewThenFirst(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryStatuses: {
			{ID: "s1", Name: "Draft"},
			{ID: "s2", Name: "New"},
		},
	})
	patch := DeriveDefaults(RoleSalesAdmin, ModeCreate, "", &Form{}, refs)
	assert.Equal(t, "s2", *patch.StatusID)

	refs = refsWith(map[string][]refdata.Option{
		refdata.CategoryStatuses: {
			{ID: "s9", Name: "Whatever"},
		},
	})
	patch = DeriveDefaults(RoleSalesAdmin, ModeCreate, "", &Form{}, refs)
	assert.Equal(t, "s9", *patch.StatusID)
}

func TestDeriveDefaults_StatusUserValueWins(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryStatuses: {{ID: "s2", Name: "Submitted"}},
	})

	patch := DeriveDefaults(RoleAgent, ModeCreate, "", &Form{StatusID: "s7"}, refs)
	assert.Nil(t, patch.StatusID)
}

func TestDeriveDefaults_StatusSkippedForBackOfficeAndEdits(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryStatuses: {{ID: "s2", Name: "Submitted"}},
	})

	patch := DeriveDefaults(RoleFinance, ModeCreate, "", &Form{}, refs)
	assert.Nil(t, patch.StatusID)

	patch = DeriveDefaults(RoleAgent, ModeEdit, "", &Form{}, refs)
	assert.Nil(t, patch.StatusID)
}

func TestDeriveDefaults_StatusSkippedWhenNotLoaded(t *testing.T) {
	patch := DeriveDefaults(RoleAgent, ModeCreate, "", &Form{}, refsWith(nil))
	assert.Nil(t, patch.StatusID)
}

func TestDeriveDefaults_BookingDateFillsPurchaseStatus(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryPurchaseStatuses: {
			{ID: "ps1", Name: "Completed"},
			{ID: "ps2", Name: "Booking"},
		},
	})

	patch := DeriveDefaults(RoleAgent, ModeCreate, "", &Form{BookingDate: "2026-03-01"}, refs)
	assert.NotNil(t, patch.PurchaseStatusID)
	assert.Equal(t, "ps2", *patch.PurchaseStatusID)

	// No booking date, no autofill.
	patch = DeriveDefaults(RoleAgent, ModeCreate, "", &Form{}, refs)
	assert.Nil(t, patch.PurchaseStatusID)

	// A chosen purchase status is never overwritten.
	patch = DeriveDefaults(RoleAgent, ModeCreate, "", &Form{BookingDate: "2026-03-01", PurchaseStatusID: "ps1"}, refs)
	assert.Nil(t, patch.PurchaseStatusID)
}

func TestDeriveDefaults_CommissionPinnedFromLogin(t *testing.T) {
	patch := DeriveDefaults(RoleAgent, ModeCreate, "ct-login", &Form{}, refsWith(nil))
	assert.NotNil(t, patch.AgentCommissionTypeID)
	assert.Equal(t, "ct-login", *patch.AgentCommissionTypeID)

	// Only agents get the pin.
	patch = DeriveDefaults(RoleFinance, ModeCreate, "ct-login", &Form{}, refsWith(nil))
	assert.Nil(t, patch.AgentCommissionTypeID)

	// Edits keep whatever the record has.
	patch = DeriveDefaults(RoleAgent, ModeEdit, "ct-login", &Form{}, refsWith(nil))
	assert.Nil(t, patch.AgentCommissionTypeID)
}

func TestDeriveDefaults_ManualRateForcesOverrideType(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryCommissionTypes: {
			{ID: "ct-std", Name: "Standard"},
			{ID: "ct-ovr", Name: "Override"},
		},
	})

	// Override supersedes the login pin.
	patch := DeriveDefaults(RoleAgent, ModeCreate, "ct-std", &Form{AgentCommissionRate: "2.5"}, refs)
	assert.NotNil(t, patch.AgentCommissionTypeID)
	assert.Equal(t, "ct-ovr", *patch.AgentCommissionTypeID)
	assert.Empty(t, patch.Warnings)
}

func TestDeriveDefaults_MissingOverrideTypeWarns(t *testing.T) {
	refs := refsWith(map[string][]refdata.Option{
		refdata.CategoryCommissionTypes: {
			{ID: "ct-std", Name: "Standard"},
		},
	})

	patch := DeriveDefaults(RoleAgent, ModeCreate, "", &Form{AgentCommissionRate: "2.5"}, refs)
	assert.Nil(t, patch.AgentCommissionTypeID)
	assert.Len(t, patch.Warnings, 1)
}

func TestApplyPatch_WritesOnlySetFields(t *testing.T) {
	f := &Form{StatusID: "keep", PurchaseStatusID: "keep"}
	status := "s1"
	f.ApplyPatch(Patch{StatusID: &status})

	assert.Equal(t, "s1", f.StatusID)
	assert.Equal(t, "keep", f.PurchaseStatusID)
}
