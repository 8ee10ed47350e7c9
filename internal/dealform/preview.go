package dealform

import (
	"fmt"

	"github.com/dealdesk/dealdesk-api/internal/refdata"
)

// Unresolvable references render as this literal in the summary.
const labelNA = "N/A"

// SummaryRow is a single label/value line in the confirmation summary.
type SummaryRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SummarySection groups summary rows under a heading.
type SummarySection struct {
	Title string       `json:"title"`
	Rows  []SummaryRow `json:"rows"`
}

// Summary is the human-readable, read-only rendering of a pending deal shown
// by the confirmation gate before the write is dispatched.
type Summary struct {
	Sections []SummarySection `json:"sections"`
}

// BuildSummary materializes the confirmation summary from a frozen form
// snapshot, resolving every reference id to its display label via the loaded
// lookup lists. The form is not mutated.
func BuildSummary(f *Form, refs *refdata.Set) *Summary {
	resolve := func(category, id string) string {
		if id == "" {
			return labelNA
		}
		if label := refs.Label(category, id); label != "" {
			return label
		}
		return labelNA
	}
	orNA := func(v string) string {
		if v == "" {
			return labelNA
		}
		return v
	}

	s := &Summary{}

	s.Sections = append(s.Sections, SummarySection{
		Title: "Deal Info",
		Rows: []SummaryRow{
			{"Deal Type", resolve(refdata.CategoryDealTypes, f.DealTypeID)},
			{"Status", resolve(refdata.CategoryStatuses, f.StatusID)},
			{"Purchase Status", resolve(refdata.CategoryPurchaseStatuses, f.PurchaseStatusID)},
			{"Booking Date", orNA(f.BookingDate)},
			{"CF Expiry Date", orNA(f.CFExpiryDate)},
			{"Close Date", orNA(f.CloseDate)},
		},
	})

	s.Sections = append(s.Sections, SummarySection{
		Title: "Property Details",
		Rows: []SummaryRow{
			{"Developer", resolve(refdata.CategoryDevelopers, f.DeveloperID)},
			{"Project", resolve(refdata.CategoryProjects, f.ProjectID)},
			{"Property Name", orNA(f.PropertyName)},
			{"Property Type", resolve(refdata.CategoryPropertyTypes, f.PropertyTypeID)},
			{"Unit Number", orNA(f.UnitNumber)},
			{"Unit Type", resolve(refdata.CategoryUnitTypes, f.UnitTypeID)},
			{"Size", orNA(f.Size)},
			{"Bedrooms", resolve(refdata.CategoryBedrooms, f.BedroomsID)},
		},
	})

	s.Sections = append(s.Sections, SummarySection{
		Title: "Buyer",
		Rows: []SummaryRow{
			{"Name", orNA(f.BuyerName)},
			{"Phone", orNA(f.BuyerPhone)},
			{"Email", orNA(f.BuyerEmail)},
			{"Nationality", resolve(refdata.CategoryNationalities, f.BuyerNationalityID)},
			{"Lead Source", resolve(refdata.CategoryLeadSources, f.BuyerLeadSourceID)},
		},
	})

	s.Sections = append(s.Sections, SummarySection{
		Title: "Seller",
		Rows: []SummaryRow{
			{"Name", orNA(f.SellerName)},
			{"Phone", orNA(f.SellerPhone)},
			{"Email", orNA(f.SellerEmail)},
			{"Nationality", resolve(refdata.CategoryNationalities, f.SellerNationalityID)},
			{"Lead Source", resolve(refdata.CategoryLeadSources, f.SellerLeadSourceID)},
		},
	})

	s.Sections = append(s.Sections, SummarySection{
		Title: "Financial Summary",
		Rows: []SummaryRow{
			{"Sales Value", orNA(f.SalesValue)},
			{"Downpayment", orNA(f.Downpayment)},
		},
	})

	s.Sections = append(s.Sections, SummarySection{
		Title: "Deal Commission",
		Rows: []SummaryRow{
			{"Commission Type", resolve(refdata.CategoryCommissionTypes, f.DealCommissionTypeID)},
			{"Commission Value", orNA(f.DealCommissionValue)},
		},
	})

	s.Sections = append(s.Sections, SummarySection{
		Title: "Main Agent Commission",
		Rows: []SummaryRow{
			{"Agent", resolve(refdata.CategoryAgents, f.AgentID)},
			{"Commission Type", resolve(refdata.CategoryCommissionTypes, f.AgentCommissionTypeID)},
			{"Commission Rate", orNA(f.AgentCommissionRate)},
			{"Commission Value", orNA(f.AgentCommissionValue)},
		},
	})

	for i, extra := range f.AdditionalAgents {
		name := extra.ExternalAgentName
		kind := AgentKindExternal
		if extra.Kind == AgentKindInternal {
			kind = AgentKindInternal
			name = resolve(refdata.CategoryAgents, extra.AgentID)
		}
		s.Sections = append(s.Sections, SummarySection{
			Title: fmt.Sprintf("Additional Agent %d", i+1),
			Rows: []SummaryRow{
				{"Type", kind},
				{"Name", orNA(name)},
				{"Commission Type", resolve(refdata.CategoryCommissionTypes, extra.CommissionTypeID)},
				{"Commission Value", orNA(extra.CommissionValue)},
			},
		})
	}

	return s
}
