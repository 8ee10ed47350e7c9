package upstream

import "time"

// Party is one counterparty (seller or buyer) on a deal payload.
type Party struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email,omitempty"`
	NationalityID string `json:"nationalityId,omitempty"`
	LeadSourceID  string `json:"leadSourceId,omitempty"`
}

// AdditionalAgentPayload is the wire shape of a secondary commission
// recipient. Internal agents carry agentId; external agencies carry only a
// free-text name.
type AdditionalAgentPayload struct {
	AgentID           string   `json:"agentId,omitempty"`
	ExternalAgentName string   `json:"externalAgentName,omitempty"`
	CommissionTypeID  string   `json:"commissionTypeId,omitempty"`
	CommissionValue   *float64 `json:"commissionValue,omitempty"`
	IsInternal        bool     `json:"isInternal"`
}

// DealPayload is the create/update request body for the core API. Optional
// numeric fields are pointers so that "empty" is omitted rather than sent as
// zero; dealValue and size always go out (defaulting to 0). closeDate is a
// pointer because agent/sales-admin creates omit it entirely.
type DealPayload struct {
	AgentID string `json:"agentId"`

	BookingDate  *time.Time `json:"bookingDate,omitempty"`
	CFExpiryDate time.Time  `json:"cfExpiryDate"`
	CloseDate    *time.Time `json:"closeDate,omitempty"`

	DealTypeID       string `json:"dealTypeId,omitempty"`
	StatusID         string `json:"statusId,omitempty"`
	PurchaseStatusID string `json:"purchaseStatusId,omitempty"`

	DeveloperID    string  `json:"developerId"`
	ProjectID      string  `json:"projectId"`
	PropertyName   string  `json:"propertyName,omitempty"`
	PropertyTypeID string  `json:"propertyTypeId"`
	UnitNumber     string  `json:"unitNumber,omitempty"`
	UnitTypeID     string  `json:"unitTypeId"`
	Size           float64 `json:"size"`
	BedroomsID     string  `json:"bedroomsId,omitempty"`

	Seller Party `json:"seller"`
	Buyer  Party `json:"buyer"`

	DealValue   float64  `json:"dealValue"`
	Downpayment *float64 `json:"downpayment,omitempty"`

	AgentCommissionTypeID string   `json:"agentCommissionTypeId,omitempty"`
	AgentCommissionRate   *float64 `json:"agentCommissionRate,omitempty"`
	AgentCommissionValue  *float64 `json:"agentCommissionValue,omitempty"`
	DealCommissionTypeID  string   `json:"dealCommissionTypeId,omitempty"`
	DealCommissionValue   *float64 `json:"dealCommissionValue,omitempty"`

	AdditionalAgents []AdditionalAgentPayload `json:"additionalAgents"`
}
