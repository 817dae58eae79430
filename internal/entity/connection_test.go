package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestConnectionFromPipelineMergesSources(t *testing.T) {
	salary := 25000.0
	dubai := Emirate("Dubai")
	lead := &Lead{
		FullName:     "A. Khan",
		MobileNumber: str("+971501234567"),
		Email:        str("khan@example.com"),
		CompanyName:  str("Acme LLC"),
		Designation:  str("Manager"),
		Location:     &dubai,
		SalaryAmount: &salary,
		BankName:     str("lead bank is not carried"),
	}
	dob := Date{1990, 5, 15}
	deal := &Deal{
		DOB:               &dob,
		SalaryBank:        str("Emirates NBD"),
		ProfessionalEmail: str("a.khan@acme.ae"),
		IBANNumber:        str("AE070331234567890123456"),
		AECBScore:         str("780"),
	}

	c := ConnectionFromPipeline("owner-1", deal, lead)

	assert.Equal(t, "owner-1", c.OwnerID)
	assert.Equal(t, "A. Khan", c.FullName)
	assert.Equal(t, "+971501234567", *c.MobileNumber)
	assert.Equal(t, "khan@example.com", *c.Email)
	assert.Equal(t, "Acme LLC", *c.CompanyName)
	assert.Equal(t, dubai, *c.Location)
	assert.Equal(t, salary, *c.MonthlySalary)
	assert.Equal(t, "Emirates NBD", *c.SalaryBank)
	assert.Equal(t, "a.khan@acme.ae", *c.WorkEmail)
	assert.Equal(t, dob, *c.DOB)
	assert.Nil(t, c.Gender)
	assert.Nil(t, c.EmploymentStatus)
	assert.Nil(t, c.WhatsAppNumber)
}

func TestConnectionFromStandaloneDeal(t *testing.T) {
	deal := &Deal{SalaryBank: str("ADCB")}

	c := ConnectionFromPipeline("owner-1", deal, nil)

	assert.Empty(t, c.FullName)
	assert.Nil(t, c.MobileNumber)
	assert.Nil(t, c.Email)
	require.NotNil(t, c.SalaryBank)
	assert.Equal(t, "ADCB", *c.SalaryBank)
}

func TestLeadNormalizeDropsCardSnapshot(t *testing.T) {
	years := 3
	limit := 50000.0
	lead := &Lead{FullName: "x", CreditCardAgeYears: &years, TotalCreditLimit: &limit}

	lead.Normalize()

	assert.Equal(t, LeadStatusNew, lead.Status)
	assert.Nil(t, lead.CreditCardAgeYears)
	assert.Nil(t, lead.TotalCreditLimit)

	lead = &Lead{FullName: "x", HasCurrentCreditCard: true, CreditCardAgeYears: &years}
	lead.Normalize()
	assert.NotNil(t, lead.CreditCardAgeYears)
}
