package dealform

import "regexp"

// Permissive international phone: optional +, then digits with common
// separators, 7 to 15 digits overall.
var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,17}[0-9]$`)

// Basic local@domain.tld shape; empty emails are always valid.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// requiredFields maps field name to the message shown when missing.
var requiredFields = []struct {
	field   string
	message string
}{
	{"developerId", "Developer is required"},
	{"projectId", "Project is required"},
	{"propertyTypeId", "Property type is required"},
	{"unitTypeId", "Unit type is required"},
	{"sellerName", "Seller name is required"},
	{"sellerPhone", "Seller phone is required"},
	{"buyerName", "Buyer name is required"},
	{"buyerPhone", "Buyer phone is required"},
	{"salesValue", "Sales value is required"},
}

// Validate checks the form at submit time and returns per-field messages.
// An empty map means the form is valid.
func (f *Form) Validate() map[string]string {
	errs := make(map[string]string)

	values := map[string]string{
		"developerId":    f.DeveloperID,
		"projectId":      f.ProjectID,
		"propertyTypeId": f.PropertyTypeID,
		"unitTypeId":     f.UnitTypeID,
		"sellerName":     f.SellerName,
		"sellerPhone":    f.SellerPhone,
		"buyerName":      f.BuyerName,
		"buyerPhone":     f.BuyerPhone,
		"salesValue":     f.SalesValue,
	}
	for _, req := range requiredFields {
		if values[req.field] == "" {
			errs[req.field] = req.message
		}
	}

	if f.SellerPhone != "" && !phoneRe.MatchString(f.SellerPhone) {
		errs["sellerPhone"] = "Seller phone is not a valid phone number"
	}
	if f.BuyerPhone != "" && !phoneRe.MatchString(f.BuyerPhone) {
		errs["buyerPhone"] = "Buyer phone is not a valid phone number"
	}

	if f.SellerEmail != "" && !emailRe.MatchString(f.SellerEmail) {
		errs["sellerEmail"] = "Seller email is not a valid email address"
	}
	if f.BuyerEmail != "" && !emailRe.MatchString(f.BuyerEmail) {
		errs["buyerEmail"] = "Buyer email is not a valid email address"
	}

	return errs
}

// IsValid reports whether the form passes submit-time validation.
func (f *Form) IsValid() bool {
	return len(f.Validate()) == 0
}
