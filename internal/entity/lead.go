package entity

import (
	"encoding/json"
	"slices"
)

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "New Lead"
	LeadStatusQualified   LeadStatus = "Qualified Lead"
	LeadStatusAppointment LeadStatus = "Appointment Booked"
)

var LeadStatuses = []LeadStatus{LeadStatusNew, LeadStatusQualified, LeadStatusAppointment}

func (s LeadStatus) Valid() bool { return slices.Contains(LeadStatuses, s) }

type Emirate string

var Emirates = []Emirate{
	"Abu Dhabi", "Dubai", "Sharjah", "Ajman", "Umm Al Quwain", "Ras Al Khaimah", "Fujairah",
}

func (e Emirate) Valid() bool { return slices.Contains(Emirates, e) }

type LeadSource string

var LeadSources = []LeadSource{
	"Existing Connection", "Social Media", "LinkedIn", "Cold Calling", "Referral", "Website", "Other",
}

func (s LeadSource) Valid() bool { return slices.Contains(LeadSources, s) }

type ProductType string

var ProductTypes = []ProductType{
	"Credit Card", "Personal Loan", "Auto Loan", "Account Opening", "Other",
}

func (p ProductType) Valid() bool { return slices.Contains(ProductTypes, p) }

// Lead is a prospective client captured before any application is filed.
type Lead struct {
	Base

	FullName       string  `json:"full_name"`
	CompanyName    *string `json:"company_name"`
	Designation    *string `json:"designation"`
	MobileNumber   *string `json:"mobile_number"`
	WhatsAppNumber *string `json:"whatsapp_number"`
	Email          *string `json:"email"`

	Location           *Emirate        `json:"location"`
	Source             *LeadSource     `json:"source"`
	BankName           *string         `json:"bank_name"`
	ProductType        *ProductType    `json:"product_type"`
	ConditionalProduct json.RawMessage `json:"conditional_product,omitempty"`

	SalaryAmount       *float64 `json:"salary_amount"`
	HasSalaryVariation bool     `json:"has_salary_variation"`

	// Card snapshot; the three detail fields only mean something when
	// HasCurrentCreditCard is true.
	HasCurrentCreditCard bool     `json:"has_current_credit_card"`
	CreditCardAgeYears   *int     `json:"credit_card_age_years"`
	CreditCardAgeMonths  *int     `json:"credit_card_age_months"`
	TotalCreditLimit     *float64 `json:"total_credit_limit"`

	Status LeadStatus `json:"status"`
}

// Normalize applies defaults and drops card details when there is no card.
func (l *Lead) Normalize() {
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	if !l.HasCurrentCreditCard {
		l.CreditCardAgeYears = nil
		l.CreditCardAgeMonths = nil
		l.TotalCreditLimit = nil
	}
}

func (l *Lead) FieldValue(field string) (any, bool) {
	switch field {
	case "status":
		return string(l.Status), true
	case "email":
		if l.Email == nil {
			return nil, true
		}
		return *l.Email, true
	}
	return nil, false
}

// Clone returns a deep copy.
func (l *Lead) Clone() *Lead {
	c := *l
	c.CompanyName = clonePtr(l.CompanyName)
	c.Designation = clonePtr(l.Designation)
	c.MobileNumber = clonePtr(l.MobileNumber)
	c.WhatsAppNumber = clonePtr(l.WhatsAppNumber)
	c.Email = clonePtr(l.Email)
	c.Location = clonePtr(l.Location)
	c.Source = clonePtr(l.Source)
	c.BankName = clonePtr(l.BankName)
	c.ProductType = clonePtr(l.ProductType)
	c.ConditionalProduct = slices.Clone(l.ConditionalProduct)
	c.SalaryAmount = clonePtr(l.SalaryAmount)
	c.CreditCardAgeYears = clonePtr(l.CreditCardAgeYears)
	c.CreditCardAgeMonths = clonePtr(l.CreditCardAgeMonths)
	c.TotalCreditLimit = clonePtr(l.TotalCreditLimit)
	return &c
}

// Duplicate copies every field except identity, owner and timestamps.
func (l *Lead) Duplicate() *Lead {
	c := l.Clone()
	c.Base = Base{}
	return c
}

func ByLeadStatus(s LeadStatus) Filter { return Filter{Field: "status", Value: string(s)} }

func ByEmail(email string) Filter { return Filter{Field: "email", Value: email} }
