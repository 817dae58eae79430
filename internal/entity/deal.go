package entity

import (
	"slices"
	"time"
)

type DealStage string

const (
	StageApplicationProcessing DealStage = "Application Processing"
	StageVerificationNeeded    DealStage = "Verification Needed"
	StageActivationNeeded      DealStage = "Activation Needed"
	StageCompleted             DealStage = "Completed"
	StageUnsuccessful          DealStage = "Unsuccessful"
)

var DealStages = []DealStage{
	StageApplicationProcessing,
	StageVerificationNeeded,
	StageActivationNeeded,
	StageCompleted,
	StageUnsuccessful,
}

// ProcessingStages are the stages counted as in-flight on the dashboard.
var ProcessingStages = []DealStage{
	StageApplicationProcessing,
	StageVerificationNeeded,
	StageActivationNeeded,
}

func (s DealStage) Valid() bool { return slices.Contains(DealStages, s) }

// Closed reports whether the stage carries a completed date.
func (s DealStage) Closed() bool {
	return s == StageCompleted || s == StageUnsuccessful
}

// Deal is an application in progress, optionally tied to the lead it came from.
type Deal struct {
	Base

	LeadID *int64    `json:"lead_id"`
	Stage  DealStage `json:"stage"`

	ApplicationNumber *string `json:"application_number"`
	BPMIDNumber       *string `json:"bpm_id_number"`

	DOB               *Date   `json:"dob"`
	Nationality       *string `json:"nationality"`
	EmiratesID        *string `json:"emirates_id"`
	PassportNumber    *string `json:"passport_number"`
	SalaryBank        *string `json:"salary_bank"`
	AECBScore         *string `json:"aecb_score"`
	ProfessionalEmail *string `json:"professional_email"`
	IBANNumber        *string `json:"iban_number"`
	CompanyLandline   *string `json:"company_landline"`
	CompanyWebsite    *string `json:"company_website"`

	SubmittedDate *Date      `json:"submitted_date"`
	CompletedDate *time.Time `json:"completed_date"`
}

// NewDealFromLead starts a fresh application for a lead.
func NewDealFromLead(ownerID string, leadID int64) *Deal {
	return &Deal{
		Base:   Base{OwnerID: ownerID},
		LeadID: &leadID,
		Stage:  StageApplicationProcessing,
	}
}

// MoveTo sets the stage and keeps CompletedDate in step with it: stamped
// when entering a closed stage, cleared otherwise.
func (d *Deal) MoveTo(stage DealStage, now time.Time) {
	d.Stage = stage
	if stage.Closed() {
		d.CompletedDate = &now
		return
	}
	d.CompletedDate = nil
}

// Normalize applies the default stage and re-derives CompletedDate for
// rows written through the generic create/update path.
func (d *Deal) Normalize(now time.Time) {
	if d.Stage == "" {
		d.Stage = StageApplicationProcessing
	}
	if !d.Stage.Closed() {
		d.CompletedDate = nil
	} else if d.CompletedDate == nil {
		d.CompletedDate = &now
	}
}

func (d *Deal) FieldValue(field string) (any, bool) {
	switch field {
	case "stage":
		return string(d.Stage), true
	case "lead_id":
		if d.LeadID == nil {
			return nil, true
		}
		return *d.LeadID, true
	}
	return nil, false
}

func (d *Deal) Clone() *Deal {
	c := *d
	c.LeadID = clonePtr(d.LeadID)
	c.ApplicationNumber = clonePtr(d.ApplicationNumber)
	c.BPMIDNumber = clonePtr(d.BPMIDNumber)
	c.DOB = clonePtr(d.DOB)
	c.Nationality = clonePtr(d.Nationality)
	c.EmiratesID = clonePtr(d.EmiratesID)
	c.PassportNumber = clonePtr(d.PassportNumber)
	c.SalaryBank = clonePtr(d.SalaryBank)
	c.AECBScore = clonePtr(d.AECBScore)
	c.ProfessionalEmail = clonePtr(d.ProfessionalEmail)
	c.IBANNumber = clonePtr(d.IBANNumber)
	c.CompanyLandline = clonePtr(d.CompanyLandline)
	c.CompanyWebsite = clonePtr(d.CompanyWebsite)
	c.SubmittedDate = clonePtr(d.SubmittedDate)
	c.CompletedDate = clonePtr(d.CompletedDate)
	return &c
}

// Duplicate copies the deal and restarts it from the first stage.
func (d *Deal) Duplicate() *Deal {
	c := d.Clone()
	c.Base = Base{}
	c.Stage = StageApplicationProcessing
	c.CompletedDate = nil
	return c
}

func ByDealStage(s DealStage) Filter { return Filter{Field: "stage", Value: string(s)} }

func ByLeadID(id int64) Filter { return Filter{Field: "lead_id", Value: id} }
