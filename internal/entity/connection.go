package entity

import "slices"

type Gender string

var Genders = []Gender{"Male", "Female", "Other"}

func (g Gender) Valid() bool { return slices.Contains(Genders, g) }

type EmploymentStatus string

var EmploymentStatuses = []EmploymentStatus{"Salaried", "Self-Employed"}

func (e EmploymentStatus) Valid() bool { return slices.Contains(EmploymentStatuses, e) }

// Connection is a fully onboarded client. It has no further stage.
type Connection struct {
	Base

	FullName       string  `json:"full_name"`
	DOB            *Date   `json:"dob"`
	Gender         *Gender `json:"gender"`
	Nationality    *string `json:"nationality"`
	PassportNumber *string `json:"passport_number"`
	EmiratesID     *string `json:"emirates_id"`

	MobileNumber   *string  `json:"mobile_number"`
	WhatsAppNumber *string  `json:"whatsapp_number"`
	Email          *string  `json:"email"`
	Location       *Emirate `json:"location"`

	EmploymentStatus *EmploymentStatus `json:"employment_status"`
	CompanyName      *string           `json:"company_name"`
	CompanyWebsite   *string           `json:"company_website"`
	CompanyLandline  *string           `json:"company_landline"`
	WorkEmail        *string           `json:"work_email"`
	Designation      *string           `json:"designation"`

	MonthlySalary *float64 `json:"monthly_salary"`
	SalaryBank    *string  `json:"salary_bank"`
	AECBScore     *string  `json:"aecb_score"`
	IBANNumber    *string  `json:"iban_number"`
}

// ConnectionFromPipeline merges a deal and its originating lead (nil for a
// standalone deal). Contact and employment data come from the lead,
// identity and financial data from the deal.
func ConnectionFromPipeline(ownerID string, deal *Deal, lead *Lead) *Connection {
	c := &Connection{
		Base:            Base{OwnerID: ownerID},
		DOB:             clonePtr(deal.DOB),
		Nationality:     clonePtr(deal.Nationality),
		PassportNumber:  clonePtr(deal.PassportNumber),
		EmiratesID:      clonePtr(deal.EmiratesID),
		CompanyWebsite:  clonePtr(deal.CompanyWebsite),
		CompanyLandline: clonePtr(deal.CompanyLandline),
		WorkEmail:       clonePtr(deal.ProfessionalEmail),
		SalaryBank:      clonePtr(deal.SalaryBank),
		AECBScore:       clonePtr(deal.AECBScore),
		IBANNumber:      clonePtr(deal.IBANNumber),
	}
	if lead != nil {
		c.FullName = lead.FullName
		c.MobileNumber = clonePtr(lead.MobileNumber)
		c.WhatsAppNumber = clonePtr(lead.WhatsAppNumber)
		c.Email = clonePtr(lead.Email)
		c.Location = clonePtr(lead.Location)
		c.CompanyName = clonePtr(lead.CompanyName)
		c.Designation = clonePtr(lead.Designation)
		c.MonthlySalary = clonePtr(lead.SalaryAmount)
	}
	return c
}

func (c *Connection) FieldValue(field string) (any, bool) {
	switch field {
	case "email":
		if c.Email == nil {
			return nil, true
		}
		return *c.Email, true
	case "location":
		if c.Location == nil {
			return nil, true
		}
		return string(*c.Location), true
	}
	return nil, false
}

func (c *Connection) Clone() *Connection {
	n := *c
	n.DOB = clonePtr(c.DOB)
	n.Gender = clonePtr(c.Gender)
	n.Nationality = clonePtr(c.Nationality)
	n.PassportNumber = clonePtr(c.PassportNumber)
	n.EmiratesID = clonePtr(c.EmiratesID)
	n.MobileNumber = clonePtr(c.MobileNumber)
	n.WhatsAppNumber = clonePtr(c.WhatsAppNumber)
	n.Email = clonePtr(c.Email)
	n.Location = clonePtr(c.Location)
	n.EmploymentStatus = clonePtr(c.EmploymentStatus)
	n.CompanyName = clonePtr(c.CompanyName)
	n.CompanyWebsite = clonePtr(c.CompanyWebsite)
	n.CompanyLandline = clonePtr(c.CompanyLandline)
	n.WorkEmail = clonePtr(c.WorkEmail)
	n.Designation = clonePtr(c.Designation)
	n.MonthlySalary = clonePtr(c.MonthlySalary)
	n.SalaryBank = clonePtr(c.SalaryBank)
	n.AECBScore = clonePtr(c.AECBScore)
	n.IBANNumber = clonePtr(c.IBANNumber)
	return &n
}

func (c *Connection) Duplicate() *Connection {
	n := c.Clone()
	n.Base = Base{}
	return n
}

func ByLocation(e Emirate) Filter { return Filter{Field: "location", Value: string(e)} }
