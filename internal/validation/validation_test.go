// internal/validation/validation_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFranchise() Data {
	return Data{
		"name":                     "Burger Barn",
		"industry":                 "food_beverage",
		"royalty_percentage":       6.5,
		"marketing_fee_percentage": "2",
		"contact_email":            "hq@burgerbarn.test",
		"contact_phone":            "(555) 555-1234",
		"website":                  "https://burgerbarn.test",
	}
}

func TestValidateKeepsFirstFailurePerField(t *testing.T) {
	set := RuleSet{"name": {Required(), MinLength(5)}}
	errs := Validate(Data{}, set)
	assert.Equal(t, []string{"This field is required"}, errs["name"])

	errs = Validate(Data{"name": "abc"}, set)
	assert.Equal(t, []string{"Must be at least 5 characters"}, errs["name"])
}

func TestFranchiseCreateRules(t *testing.T) {
	set, ok := Lookup(FranchiseCreate)
	require.True(t, ok)

	assert.False(t, Validate(validFranchise(), set).HasErrors())

	data := validFranchise()
	delete(data, "name")
	data["royalty_percentage"] = 120.0
	data["industry"] = "mining"
	errs := Validate(data, set)
	assert.Contains(t, errs, "name")
	assert.Equal(t, []string{"Must be between 0 and 100"}, errs["royalty_percentage"])
	assert.Contains(t, errs["industry"][0], "Must be one of:")
}

func TestRuleSetsAreIdempotent(t *testing.T) {
	data := Data{"first_name": "", "email": "nope", "source": "tv", "priority": "urgent"}
	first := Check(LeadCreate, data)
	second := Check(LeadCreate, data)
	assert.Equal(t, first, second)
	assert.True(t, first.HasErrors())
}

func TestPartialChecksOnlyPresentKeys(t *testing.T) {
	set, ok := Lookup(FranchiseUpdate)
	require.True(t, ok)

	assert.False(t, Validate(Data{}, set).HasErrors())
	assert.False(t, Validate(Data{"description": "new copy"}, set).HasErrors())

	errs := Validate(Data{"royalty_percentage": -1.0}, set)
	assert.Equal(t, []string{"Must be between 0 and 100"}, errs["royalty_percentage"])

	for field, rules := range set {
		for _, r := range rules {
			assert.NotEqual(t, ruleRequired, r.Name, field)
		}
	}
}

func TestPartialRejectsBlankRequiredFields(t *testing.T) {
	errs := Check(FranchiseUpdate, Data{"name": "   "})
	assert.Equal(t, []string{"This field must have a value"}, errs["name"])

	errs = Check(UnitUpdate, Data{"unit_name": "", "address": nil})
	assert.Contains(t, errs, "unit_name")
	assert.Contains(t, errs, "address")

	// Optional fields may still be cleared.
	assert.False(t, Check(FranchiseUpdate, Data{"description": ""}).HasErrors())
}

func TestTransitionRuleSets(t *testing.T) {
	errs := Check(LeadStatus, Data{"status": "closed_lost"})
	assert.Contains(t, errs, "lost_reason")
	assert.False(t, Check(LeadStatus, Data{"status": "contacted"}).HasErrors())

	assert.Contains(t, Check(TicketRate, Data{"satisfaction_rating": 6.0}), "satisfaction_rating")
	assert.False(t, Check(RoyaltyGenerate, Data{"period_year": 2024.0, "period_month": 3.0}).HasErrors())
	assert.Contains(t, Check(RoyaltyGenerate, Data{"period_year": 2024.0, "period_month": 13.0}), "period_month")
	assert.False(t, Check(FranchiseAssignBroker, Data{"broker_id": nil}).HasErrors())
}

func TestRegisterRejectsPrivilegedRoles(t *testing.T) {
	data := Data{
		"name":                  "Ann",
		"email":                 "ann@example.test",
		"password":              "password123",
		"password_confirmation": "password123",
		"role":                  "admin",
	}
	assert.Contains(t, Check(AuthRegister, data), "role")

	data["role"] = "broker"
	assert.False(t, Check(AuthRegister, data).HasErrors())
}

func TestUnknownKey(t *testing.T) {
	errs := Check(Key("nope.create"), Data{})
	assert.Contains(t, errs, "_")
}

func TestErrorsMergeAndFirst(t *testing.T) {
	errs := Errors{"email": {"bad"}}
	errs.Merge("unit", Errors{"unit_name": {"This field is required"}})
	assert.Equal(t, []string{"This field is required"}, errs["unit.unit_name"])
	assert.Equal(t, "bad", errs.First())
}
