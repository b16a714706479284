package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() LeadInput {
	return LeadInput{
		Email:    "contact@exemple.fr",
		FullName: "Jean Martin",
		Phone:    "0612345678",
	}
}

func fieldErrors(errs []ValidationError) map[string]string {
	out := map[string]string{}
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

func TestValidateAcceptsMinimalInput(t *testing.T) {
	assert.Empty(t, ValidateLeadInput(validInput()))
}

func TestValidateRequiresEmail(t *testing.T) {
	input := validInput()
	input.Email = "  "

	errs := fieldErrors(ValidateLeadInput(input))
	assert.Contains(t, errs, "email")
}

func TestValidateRejectsMalformedEmail(t *testing.T) {
	input := validInput()
	input.Email = "pas-un-email"

	errs := fieldErrors(ValidateLeadInput(input))
	assert.Contains(t, errs, "email")
}

func TestValidateRequiresSomeName(t *testing.T) {
	input := validInput()
	input.FullName = ""

	errs := fieldErrors(ValidateLeadInput(input))
	assert.Contains(t, errs, "full_name")

	input.Nom = "Martin"
	assert.Empty(t, ValidateLeadInput(input))
}

func TestValidatePhoneFR(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"0612345678", true},
		{"06 12 34 56 78", true},
		{"+33 6 12 34 56 78", true},
		{"06.12.34.56.78", true},
		{"1234567890", false},
		{"061234567", false},
		{"06123456789", false},
	}

	for _, tc := range cases {
		input := validInput()
		input.Phone = tc.phone
		errs := fieldErrors(ValidateLeadInput(input))
		if tc.valid {
			assert.NotContains(t, errs, "phone", tc.phone)
		} else {
			assert.Contains(t, errs, "phone", tc.phone)
		}
	}
}

func TestValidateSiretLuhn(t *testing.T) {
	input := validInput()

	// SIRET au format INSEE: 14 chiffres, clé de Luhn.
	input.Siret = "552 100 554 00013"
	assert.Empty(t, ValidateLeadInput(input))

	input.Siret = "55210055400014"
	errs := fieldErrors(ValidateLeadInput(input))
	assert.Contains(t, errs, "siret")

	input.Siret = "123"
	errs = fieldErrors(ValidateLeadInput(input))
	assert.Contains(t, errs, "siret")
}

func TestValidateCodePostal(t *testing.T) {
	input := validInput()

	input.CodePostal = "75011"
	assert.Empty(t, ValidateLeadInput(input))

	input.CodePostal = "7501"
	errs := fieldErrors(ValidateLeadInput(input))
	assert.Contains(t, errs, "code_postal")
}
