package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadColumns = `id, user_id, full_name, company_name, designation, mobile_number,
	whatsapp_number, email, location, source, bank_name, product_type, conditional_product,
	salary_amount, has_salary_variation, has_current_credit_card, credit_card_age_years,
	credit_card_age_months, total_credit_limit, status, created_at, updated_at`

var leadFilters = map[string]string{
	"status": "status",
	"email":  "email",
}

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (user_id, full_name, company_name, designation, mobile_number,
			whatsapp_number, email, location, source, bank_name, product_type, conditional_product,
			salary_amount, has_salary_variation, has_current_credit_card, credit_card_age_years,
			credit_card_age_months, total_credit_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		l.OwnerID,
		l.FullName,
		l.CompanyName,
		l.Designation,
		l.MobileNumber,
		l.WhatsAppNumber,
		l.Email,
		l.Location,
		l.Source,
		l.BankName,
		l.ProductType,
		jsonArg(l.ConditionalProduct),
		l.SalaryAmount,
		l.HasSalaryVariation,
		l.HasCurrentCreditCard,
		l.CreditCardAgeYears,
		l.CreditCardAgeMonths,
		l.TotalCreditLimit,
		l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	return mapErr(err)
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND user_id = $2`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapErr(err)
	}
	return lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET
			full_name = $3, company_name = $4, designation = $5, mobile_number = $6,
			whatsapp_number = $7, email = $8, location = $9, source = $10, bank_name = $11,
			product_type = $12, conditional_product = $13, salary_amount = $14,
			has_salary_variation = $15, has_current_credit_card = $16,
			credit_card_age_years = $17, credit_card_age_months = $18,
			total_credit_limit = $19, status = $20, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		l.ID,
		l.OwnerID,
		l.FullName,
		l.CompanyName,
		l.Designation,
		l.MobileNumber,
		l.WhatsAppNumber,
		l.Email,
		l.Location,
		l.Source,
		l.BankName,
		l.ProductType,
		jsonArg(l.ConditionalProduct),
		l.SalaryAmount,
		l.HasSalaryVariation,
		l.HasCurrentCreditCard,
		l.CreditCardAgeYears,
		l.CreditCardAgeMonths,
		l.TotalCreditLimit,
		l.Status,
	).Scan(&l.CreatedAt, &l.UpdatedAt)

	return mapErr(err)
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(res)
}

func (r *LeadRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Lead, error) {
	query, args, err := listQuery("leads", leadColumns, leadFilters, ownerID, filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l           entity.Lead
		conditional []byte
	)
	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.FullName,
		&l.CompanyName,
		&l.Designation,
		&l.MobileNumber,
		&l.WhatsAppNumber,
		&l.Email,
		&l.Location,
		&l.Source,
		&l.BankName,
		&l.ProductType,
		&conditional,
		&l.SalaryAmount,
		&l.HasSalaryVariation,
		&l.HasCurrentCreditCard,
		&l.CreditCardAgeYears,
		&l.CreditCardAgeMonths,
		&l.TotalCreditLimit,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(conditional) > 0 {
		l.ConditionalProduct = conditional
	}
	return &l, nil
}
