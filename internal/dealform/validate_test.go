package dealform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validForm() *Form {
	return &Form{
		DeveloperID:    "dev-1",
		ProjectID:      "proj-1",
		PropertyTypeID: "pt-1",
		UnitTypeID:     "ut-1",
		SellerName:     "Seller One",
		SellerPhone:    "+971501234567",
		BuyerName:      "Buyer One",
		BuyerPhone:     "0501234567",
		SalesValue:     "1500000",
	}
}

func TestValidate_ValidForm(t *testing.T) {
	assert.Empty(t, validForm().Validate())
	assert.True(t, validForm().IsValid())
}

func TestValidate_RequiredFields(t *testing.T) {
	errs := (&Form{}).Validate()

	for _, field := range []string{
		"developerId", "projectId", "propertyTypeId", "unitTypeId",
		"sellerName", "sellerPhone", "buyerName", "buyerPhone", "salesValue",
	} {
		assert.Contains(t, errs, field)
	}
}

func TestValidate_PhoneFormat(t *testing.T) {
	f := validForm()
	f.BuyerPhone = "12ab34"
	errs := f.Validate()
	assert.Contains(t, errs, "buyerPhone")

	f = validForm()
	f.SellerPhone = "+971 50 123 4567"
	assert.Empty(t, f.Validate())
}

func TestValidate_EmailOptionalButChecked(t *testing.T) {
	f := validForm()
	assert.Empty(t, f.Validate(), "empty emails are valid")

	f.BuyerEmail = "not-an-email"
	errs := f.Validate()
	assert.Contains(t, errs, "buyerEmail")

	f.BuyerEmail = "buyer@example.com"
	assert.Empty(t, f.Validate())
}
