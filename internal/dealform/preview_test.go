package dealform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealdesk/dealdesk-api/internal/refdata"
)

func summaryRow(t *testing.T, s *Summary, section, label string) string {
	t.Helper()
	for _, sec := range s.Sections {
		if sec.Title != section {
			continue
		}
		for _, row := range sec.Rows {
			if row.Label == label {
				return row.Value
			}
		}
	}
	t.Fatalf("row %q/%q not found", section, label)
	return ""
}

func TestBuildSummary_ResolvesLabels(t *testing.T) {
	refs := refdata.NewSet(map[string][]refdata.Option{
		refdata.CategoryDevelopers: {{ID: "dev-1", Name: "Emaar"}},
		refdata.CategoryProjects:   {{ID: "proj-1", Name: "Marina Heights — Emaar"}},
		refdata.CategoryStatuses:   {{ID: "s1", Name: "Submitted"}},
	})

	f := &Form{DeveloperID: "dev-1", ProjectID: "proj-1", StatusID: "s1", SalesValue: "1500000"}
	s := BuildSummary(f, refs)

	assert.Equal(t, "Emaar", summaryRow(t, s, "Property Details", "Developer"))
	assert.Equal(t, "Marina Heights — Emaar", summaryRow(t, s, "Property Details", "Project"))
	assert.Equal(t, "Submitted", summaryRow(t, s, "Deal Info", "Status"))
	assert.Equal(t, "1500000", summaryRow(t, s, "Financial Summary", "Sales Value"))
}

func TestBuildSummary_UnresolvedRendersNA(t *testing.T) {
	s := BuildSummary(&Form{DeveloperID: "dev-gone"}, refdata.NewSet(nil))

	assert.Equal(t, "N/A", summaryRow(t, s, "Property Details", "Developer"))
	assert.Equal(t, "N/A", summaryRow(t, s, "Deal Info", "Booking Date"))
	assert.Equal(t, "N/A", summaryRow(t, s, "Buyer", "Name"))
}

func TestBuildSummary_AdditionalAgentSections(t *testing.T) {
	refs := refdata.NewSet(map[string][]refdata.Option{
		refdata.CategoryAgents: {{ID: "agent-2", Name: "Jordan Lee"}},
	})

	f := &Form{
		AdditionalAgents: []AdditionalAgent{
			{Kind: AgentKindInternal, AgentID: "agent-2", CommissionValue: "500"},
			{Kind: AgentKindExternal, ExternalAgentName: "Acme Realty"},
		},
	}
	s := BuildSummary(f, refs)

	assert.Equal(t, "internal", summaryRow(t, s, "Additional Agent 1", "Type"))
	assert.Equal(t, "Jordan Lee", summaryRow(t, s, "Additional Agent 1", "Name"))
	assert.Equal(t, "500", summaryRow(t, s, "Additional Agent 1", "Commission Value"))

	assert.Equal(t, "external", summaryRow(t, s, "Additional Agent 2", "Type"))
	assert.Equal(t, "Acme Realty", summaryRow(t, s, "Additional Agent 2", "Name"))
}

func TestBuildSummary_DoesNotMutateForm(t *testing.T) {
	f := &Form{SalesValue: "100"}
	before := *f
	BuildSummary(f, refdata.NewSet(nil))
	assert.Equal(t, before, *f)
}
