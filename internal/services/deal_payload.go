package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dealdesk/dealdesk-api/internal/dealform"
	"github.com/dealdesk/dealdesk-api/internal/refdata"
	"github.com/dealdesk/dealdesk-api/internal/session"
	"github.com/dealdesk/dealdesk-api/internal/upstream"
)

const dateLayout = "2006-01-02"

// buildPayload converts the string-typed form into the core API wire payload.
// Unparsable optional numbers are dropped rather than rejected; dealValue and
// size always go out, defaulting to 0. The acting agent resolves to the
// session user except for sales admins, who submit on behalf of the agent
// chosen in the form.
func (s *DealService) buildPayload(sess *session.Session, role dealform.Role, mode dealform.Mode, f *dealform.Form) (*upstream.DealPayload, error) {
	now := time.Now().UTC()

	agentID := sess.UserID
	if role == dealform.RoleSalesAdmin {
		agentID = f.AgentID
	}
	if agentID == "" {
		return nil, ErrMissingAgent
	}

	agentCommissionTypeID := f.AgentCommissionTypeID
	if role == dealform.RoleAgent && agentCommissionTypeID == "" {
		agentCommissionTypeID = sess.CommissionTypeID
	}

	purchaseStatusID := f.PurchaseStatusID
	if purchaseStatusID == "" && mode == dealform.ModeCreate && role.AppliesFormDefaults() && f.BookingDate != "" {
		refs := s.filters.Cached()
		if refs.Loaded(refdata.CategoryPurchaseStatuses) {
			if opt, ok := refs.FindNameContains(refdata.CategoryPurchaseStatuses, "booking"); ok {
				purchaseStatusID = opt.ID
			}
		}
	}

	var closeDate *time.Time
	if !(mode == dealform.ModeCreate && role.OmitsCloseDateOnCreate()) {
		closeDate = parseDate(f.CloseDate)
		if closeDate == nil {
			closeDate = &now
		}
	}

	cfExpiry := now
	if parsed := parseDate(f.CFExpiryDate); parsed != nil {
		cfExpiry = *parsed
	}

	payload := &upstream.DealPayload{
		AgentID: agentID,

		BookingDate:  parseDate(f.BookingDate),
		CFExpiryDate: cfExpiry,
		CloseDate:    closeDate,

		DealTypeID:       f.DealTypeID,
		StatusID:         f.StatusID,
		PurchaseStatusID: purchaseStatusID,

		DeveloperID:    f.DeveloperID,
		ProjectID:      f.ProjectID,
		PropertyName:   f.PropertyName,
		PropertyTypeID: f.PropertyTypeID,
		UnitNumber:     f.UnitNumber,
		UnitTypeID:     f.UnitTypeID,
		Size:           parseFloatOrZero(f.Size),
		BedroomsID:     f.BedroomsID,

		Seller: upstream.Party{
			Name:          f.SellerName,
			Phone:         f.SellerPhone,
			Email:         f.SellerEmail,
			NationalityID: f.SellerNationalityID,
			LeadSourceID:  f.SellerLeadSourceID,
		},
		Buyer: upstream.Party{
			Name:          f.BuyerName,
			Phone:         f.BuyerPhone,
			Email:         f.BuyerEmail,
			NationalityID: f.BuyerNationalityID,
			LeadSourceID:  f.BuyerLeadSourceID,
		},

		DealValue:   parseFloatOrZero(f.SalesValue),
		Downpayment: parseFloat(f.Downpayment),

		AgentCommissionTypeID: agentCommissionTypeID,
		AgentCommissionRate:   parseFloat(f.AgentCommissionRate),
		AgentCommissionValue:  parseFloat(f.AgentCommissionValue),
		DealCommissionTypeID:  f.DealCommissionTypeID,
		DealCommissionValue:   parseFloat(f.DealCommissionValue),

		AdditionalAgents: make([]upstream.AdditionalAgentPayload, 0, len(f.AdditionalAgents)),
	}

	for _, agent := range f.AdditionalAgents {
		entry := upstream.AdditionalAgentPayload{
			CommissionTypeID: agent.CommissionTypeID,
			CommissionValue:  parseFloat(agent.CommissionValue),
			IsInternal:       agent.Kind == dealform.AgentKindInternal,
		}
		if entry.IsInternal {
			entry.AgentID = agent.AgentID
		} else {
			entry.ExternalAgentName = agent.ExternalAgentName
		}
		payload.AdditionalAgents = append(payload.AdditionalAgents, entry)
	}

	return payload, nil
}

// hydrateForm maps an existing core API record back into editable form
// fields. Everything becomes a string, dates are reduced to their date part,
// and unknown record fields are ignored.
func hydrateForm(record map[string]any) *dealform.Form {
	f := &dealform.Form{
		BookingDate:      recordDate(record["bookingDate"]),
		CFExpiryDate:     recordDate(record["cfExpiryDate"]),
		CloseDate:        recordDate(record["closeDate"]),
		DealTypeID:       recordString(record["dealTypeId"]),
		StatusID:         recordString(record["statusId"]),
		PurchaseStatusID: recordString(record["purchaseStatusId"]),

		DeveloperID:    recordString(record["developerId"]),
		ProjectID:      recordString(record["projectId"]),
		PropertyName:   recordString(record["propertyName"]),
		PropertyTypeID: recordString(record["propertyTypeId"]),
		UnitNumber:     recordString(record["unitNumber"]),
		UnitTypeID:     recordString(record["unitTypeId"]),
		Size:           recordString(record["size"]),
		BedroomsID:     recordString(record["bedroomsId"]),

		SalesValue:  recordString(record["dealValue"]),
		Downpayment: recordString(record["downpayment"]),

		AgentID:               recordString(record["agentId"]),
		AgentCommissionTypeID: recordString(record["agentCommissionTypeId"]),
		AgentCommissionRate:   recordString(record["agentCommissionRate"]),
		AgentCommissionValue:  recordString(record["agentCommissionValue"]),
		DealCommissionTypeID:  recordString(record["dealCommissionTypeId"]),
		DealCommissionValue:   recordString(record["dealCommissionValue"]),
	}

	if seller, ok := record["seller"].(map[string]any); ok {
		f.SellerName = recordString(seller["name"])
		f.SellerPhone = recordString(seller["phone"])
		f.SellerEmail = recordString(seller["email"])
		f.SellerNationalityID = recordString(seller["nationalityId"])
		f.SellerLeadSourceID = recordString(seller["leadSourceId"])
	}
	if buyer, ok := record["buyer"].(map[string]any); ok {
		f.BuyerName = recordString(buyer["name"])
		f.BuyerPhone = recordString(buyer["phone"])
		f.BuyerEmail = recordString(buyer["email"])
		f.BuyerNationalityID = recordString(buyer["nationalityId"])
		f.BuyerLeadSourceID = recordString(buyer["leadSourceId"])
	}

	if agents, ok := record["additionalAgents"].([]any); ok {
		for _, raw := range agents {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			agent := dealform.AdditionalAgent{
				AgentID:           recordString(item["agentId"]),
				ExternalAgentName: recordString(item["externalAgentName"]),
				CommissionTypeID:  recordString(item["commissionTypeId"]),
				CommissionValue:   recordString(item["commissionValue"]),
			}
			if internal, ok := item["isInternal"].(bool); ok && internal {
				agent.Kind = dealform.AgentKindInternal
			} else {
				agent.Kind = dealform.AgentKindExternal
			}
			f.AdditionalAgents = append(f.AdditionalAgents, agent)
		}
	}

	return f
}

// parseDate accepts the form's date inputs (date-only or RFC3339).
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	return nil
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseFloatOrZero(value string) float64 {
	if f := parseFloat(value); f != nil {
		return *f
	}
	return 0
}

func recordString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func recordDate(v any) string {
	raw := recordString(v)
	if raw == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(dateLayout)
	}
	return raw
}
