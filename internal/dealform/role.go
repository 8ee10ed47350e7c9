package dealform

import "fmt"

// Role is the closed set of brokerage roles. Keeping it an enum (rather than
// comparing raw strings at every decision point) forces a review of each
// branch when a role is added.
type Role int

const (
	RoleUnknown Role = iota
	RoleAgent
	RoleFinance
	RoleCEO
	RoleAdmin
	RoleCompliance
	RoleSalesAdmin
)

// Role wire names as the core API reports them.
const (
	roleNameAgent      = "agent"
	roleNameFinance    = "finance"
	roleNameCEO        = "ceo"
	roleNameAdmin      = "admin"
	roleNameCompliance = "compliance"
	roleNameSalesAdmin = "sales_admin"
)

// ParseRole maps a wire role name to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleNameAgent:
		return RoleAgent, nil
	case roleNameFinance:
		return RoleFinance, nil
	case roleNameCEO:
		return RoleCEO, nil
	case roleNameAdmin:
		return RoleAdmin, nil
	case roleNameCompliance:
		return RoleCompliance, nil
	case roleNameSalesAdmin:
		return RoleSalesAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleAgent:
		return roleNameAgent
	case RoleFinance:
		return roleNameFinance
	case RoleCEO:
		return roleNameCEO
	case RoleAdmin:
		return roleNameAdmin
	case RoleCompliance:
		return roleNameCompliance
	case RoleSalesAdmin:
		return roleNameSalesAdmin
	default:
		return "unknown"
	}
}

// CanCreateDeals reports whether the role may create new deals.
// Compliance reviews deals but never authors them.
func (r Role) CanCreateDeals() bool {
	switch r {
	case RoleAgent, RoleFinance, RoleCEO, RoleAdmin, RoleSalesAdmin:
		return true
	case RoleCompliance:
		return false
	default:
		return false
	}
}

// CanEditDeals reports whether the role may submit changes to an existing
// deal. Agents hand off after submission; compliance is read-only.
func (r Role) CanEditDeals() bool {
	switch r {
	case RoleFinance, RoleCEO, RoleAdmin, RoleSalesAdmin:
		return true
	case RoleAgent, RoleCompliance:
		return false
	default:
		return false
	}
}

// AppliesFormDefaults reports whether the role gets the authoring defaults
// (status, purchase status) when creating a deal.
func (r Role) AppliesFormDefaults() bool {
	return r == RoleAgent || r == RoleSalesAdmin
}

// OmitsCloseDateOnCreate reports whether new deals created by this role are
// sent without a close date.
func (r Role) OmitsCloseDateOnCreate() bool {
	return r == RoleAgent || r == RoleSalesAdmin
}
