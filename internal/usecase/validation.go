package usecase

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var (
	nonDigits   = regexp.MustCompile(`\D`)
	ibanPattern = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{11,30}$`)
)

func ValidateLead(l *entity.Lead) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(l.FullName) == "" {
		errors = append(errors, ValidationError{"full_name", "is required"})
	} else if len(l.FullName) > 200 {
		errors = append(errors, ValidationError{"full_name", "must not exceed 200 characters"})
	}

	errors = appendPhone(errors, "mobile_number", l.MobileNumber)
	errors = appendPhone(errors, "whatsapp_number", l.WhatsAppNumber)
	errors = appendEmail(errors, "email", l.Email)

	if l.Status != "" && !l.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be one of New Lead, Qualified Lead, Appointment Booked"})
	}
	if l.Location != nil && !l.Location.Valid() {
		errors = append(errors, ValidationError{"location", "must be a UAE emirate"})
	}
	if l.Source != nil && !l.Source.Valid() {
		errors = append(errors, ValidationError{"source", "is not a known lead source"})
	}
	if l.ProductType != nil && !l.ProductType.Valid() {
		errors = append(errors, ValidationError{"product_type", "is not a known product type"})
	}
	if l.SalaryAmount != nil && *l.SalaryAmount < 0 {
		errors = append(errors, ValidationError{"salary_amount", "must not be negative"})
	}

	if l.HasCurrentCreditCard {
		if l.CreditCardAgeYears != nil && *l.CreditCardAgeYears < 0 {
			errors = append(errors, ValidationError{"credit_card_age_years", "must not be negative"})
		}
		if l.CreditCardAgeMonths != nil && (*l.CreditCardAgeMonths < 0 || *l.CreditCardAgeMonths > 11) {
			errors = append(errors, ValidationError{"credit_card_age_months", "must be 0-11"})
		}
		if l.TotalCreditLimit != nil && *l.TotalCreditLimit < 0 {
			errors = append(errors, ValidationError{"total_credit_limit", "must not be negative"})
		}
	}

	return errors
}

func ValidateDeal(d *entity.Deal) []ValidationError {
	var errors []ValidationError

	if d.Stage != "" && !d.Stage.Valid() {
		errors = append(errors, ValidationError{"stage", "is not a known deal stage"})
	}
	if d.LeadID != nil && *d.LeadID <= 0 {
		errors = append(errors, ValidationError{"lead_id", "must be a positive id"})
	}
	if d.EmiratesID != nil && !isValidEmiratesID(*d.EmiratesID) {
		errors = append(errors, ValidationError{"emirates_id", "must have 15 digits starting with 784"})
	}
	if d.IBANNumber != nil && !isValidIBAN(*d.IBANNumber) {
		errors = append(errors, ValidationError{"iban_number", "is invalid"})
	}
	errors = appendEmail(errors, "professional_email", d.ProfessionalEmail)

	return errors
}

func ValidateConnection(c *entity.Connection) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.FullName) == "" {
		errors = append(errors, ValidationError{"full_name", "is required"})
	}
	errors = appendPhone(errors, "mobile_number", c.MobileNumber)
	errors = appendPhone(errors, "whatsapp_number", c.WhatsAppNumber)
	errors = appendEmail(errors, "email", c.Email)
	errors = appendEmail(errors, "work_email", c.WorkEmail)

	if c.Gender != nil && !c.Gender.Valid() {
		errors = append(errors, ValidationError{"gender", "must be Male, Female or Other"})
	}
	if c.Location != nil && !c.Location.Valid() {
		errors = append(errors, ValidationError{"location", "must be a UAE emirate"})
	}
	if c.EmploymentStatus != nil && !c.EmploymentStatus.Valid() {
		errors = append(errors, ValidationError{"employment_status", "must be Salaried or Self-Employed"})
	}
	if c.EmiratesID != nil && !isValidEmiratesID(*c.EmiratesID) {
		errors = append(errors, ValidationError{"emirates_id", "must have 15 digits starting with 784"})
	}
	if c.IBANNumber != nil && !isValidIBAN(*c.IBANNumber) {
		errors = append(errors, ValidationError{"iban_number", "is invalid"})
	}

	return errors
}

func ValidateTask(t *entity.Task) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(t.Title) == "" {
		errors = append(errors, ValidationError{"title", "is required"})
	} else if len(t.Title) > 500 {
		errors = append(errors, ValidationError{"title", "must not exceed 500 characters"})
	}
	if t.Priority != "" && !t.Priority.Valid() {
		errors = append(errors, ValidationError{"priority", "must be P1, P2, P3 or P4"})
	}
	if t.Status != "" && !t.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be Todo, In Progress or Done"})
	}
	for _, tag := range t.Tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{"tags", "must not contain empty tags"})
			break
		}
	}

	return errors
}

func appendPhone(errors []ValidationError, field string, phone *string) []ValidationError {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return errors
	}
	if !isValidPhoneNumber(*phone) {
		return append(errors, ValidationError{field, "must be a valid phone number"})
	}
	return errors
}

func appendEmail(errors []ValidationError, field string, email *string) []ValidationError {
	if email == nil || strings.TrimSpace(*email) == "" {
		return errors
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return append(errors, ValidationError{field, "is invalid"})
	}
	return errors
}

// E.164 allows up to 15 digits; local UAE numbers have at least 9.
func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 9 && len(cleaned) <= 15
}

func isValidEmiratesID(id string) bool {
	cleaned := nonDigits.ReplaceAllString(id, "")
	return len(cleaned) == 15 && strings.HasPrefix(cleaned, "784")
}

func isValidIBAN(iban string) bool {
	cleaned := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	return ibanPattern.MatchString(cleaned)
}
