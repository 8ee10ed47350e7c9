package dealform

// Mode distinguishes authoring a new deal from editing an existing record.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Additional agent kinds
const (
	AgentKindInternal = "internal"
	AgentKindExternal = "external"
)

// AdditionalAgent is a secondary commission recipient: either an internal
// system user or an unregistered external agency.
type AdditionalAgent struct {
	Kind              string `json:"kind"`
	AgentID           string `json:"agentId,omitempty"`
	ExternalAgentName string `json:"externalAgentName,omitempty"`
	CommissionTypeID  string `json:"commissionTypeId"`
	CommissionValue   string `json:"commissionValue"`
}

// Form is the editable draft state of a deal. Every field is kept as entered
// (string), mirroring form inputs; parsing to wire types happens only at
// submission.
type Form struct {
	// Identity / status
	BookingDate      string `json:"bookingDate"`
	CFExpiryDate     string `json:"cfExpiryDate"`
	CloseDate        string `json:"closeDate"`
	DealTypeID       string `json:"dealTypeId"`
	StatusID         string `json:"statusId"`
	PurchaseStatusID string `json:"purchaseStatusId"`

	// Property
	DeveloperID    string `json:"developerId"`
	ProjectID      string `json:"projectId"`
	PropertyName   string `json:"propertyName"`
	PropertyTypeID string `json:"propertyTypeId"`
	UnitNumber     string `json:"unitNumber"`
	UnitTypeID     string `json:"unitTypeId"`
	Size           string `json:"size"`
	BedroomsID     string `json:"bedroomsId"`

	// Seller
	SellerName          string `json:"sellerName"`
	SellerPhone         string `json:"sellerPhone"`
	SellerEmail         string `json:"sellerEmail"`
	SellerNationalityID string `json:"sellerNationalityId"`
	SellerLeadSourceID  string `json:"sellerLeadSourceId"`

	// Buyer
	BuyerName          string `json:"buyerName"`
	BuyerPhone         string `json:"buyerPhone"`
	BuyerEmail         string `json:"buyerEmail"`
	BuyerNationalityID string `json:"buyerNationalityId"`
	BuyerLeadSourceID  string `json:"buyerLeadSourceId"`

	// Commercial terms
	SalesValue            string `json:"salesValue"`
	Downpayment           string `json:"downpayment"`
	AgentID               string `json:"agentId"`
	AgentCommissionTypeID string `json:"agentCommissionTypeId"`
	AgentCommissionRate   string `json:"agentCommissionRate"`
	AgentCommissionValue  string `json:"agentCommissionValue"`
	DealCommissionTypeID  string `json:"dealCommissionTypeId"`
	DealCommissionValue   string `json:"dealCommissionValue"`

	AdditionalAgents []AdditionalAgent `json:"additionalAgents"`
}

// Set writes a single field by its JSON name, sanitizing numeric input as it
// lands. Changing the developer always clears the selected project, since a
// project is only meaningful relative to its developer.
// The second return value is false when the field name is not editable.
func (f *Form) Set(field, value string) bool {
	value = SanitizeField(field, value)

	switch field {
	case "bookingDate":
		f.BookingDate = value
	case "cfExpiryDate":
		f.CFExpiryDate = value
	case "closeDate":
		f.CloseDate = value
	case "dealTypeId":
		f.DealTypeID = value
	case "statusId":
		f.StatusID = value
	case "purchaseStatusId":
		f.PurchaseStatusID = value
	case "developerId":
		if f.DeveloperID != value {
			f.ProjectID = ""
		}
		f.DeveloperID = value
	case "projectId":
		f.ProjectID = value
	case "propertyName":
		f.PropertyName = value
	case "propertyTypeId":
		f.PropertyTypeID = value
	case "unitNumber":
		f.UnitNumber = value
	case "unitTypeId":
		f.UnitTypeID = value
	case "size":
		f.Size = value
	case "bedroomsId":
		f.BedroomsID = value
	case "sellerName":
		f.SellerName = value
	case "sellerPhone":
		f.SellerPhone = value
	case "sellerEmail":
		f.SellerEmail = value
	case "sellerNationalityId":
		f.SellerNationalityID = value
	case "sellerLeadSourceId":
		f.SellerLeadSourceID = value
	case "buyerName":
		f.BuyerName = value
	case "buyerPhone":
		f.BuyerPhone = value
	case "buyerEmail":
		f.BuyerEmail = value
	case "buyerNationalityId":
		f.BuyerNationalityID = value
	case "buyerLeadSourceId":
		f.BuyerLeadSourceID = value
	case "salesValue":
		f.SalesValue = value
	case "downpayment":
		f.Downpayment = value
	case "agentId":
		f.AgentID = value
	case "agentCommissionTypeId":
		f.AgentCommissionTypeID = value
	case "agentCommissionRate":
		f.AgentCommissionRate = value
	case "agentCommissionValue":
		f.AgentCommissionValue = value
	case "dealCommissionTypeId":
		f.DealCommissionTypeID = value
	case "dealCommissionValue":
		f.DealCommissionValue = value
	default:
		return false
	}
	return true
}

// Clone returns a deep copy of the form, used to freeze the pending snapshot
// at preview time so the editable draft stays independent.
func (f *Form) Clone() *Form {
	clone := *f
	clone.AdditionalAgents = append([]AdditionalAgent(nil), f.AdditionalAgents...)
	return &clone
}
