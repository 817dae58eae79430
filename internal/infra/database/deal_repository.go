package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const dealColumns = `id, user_id, lead_id, stage, application_number, bpm_id_number, dob,
	nationality, emirates_id, passport_number, salary_bank, aecb_score, professional_email,
	iban_number, company_landline, company_website, submitted_date, completed_date,
	created_at, updated_at`

var dealFilters = map[string]string{
	"stage":   "stage",
	"lead_id": "lead_id",
}

type DealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{DB: db}
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	query := `
		INSERT INTO deals (user_id, lead_id, stage, application_number, bpm_id_number, dob,
			nationality, emirates_id, passport_number, salary_bank, aecb_score, professional_email,
			iban_number, company_landline, company_website, submitted_date, completed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		d.OwnerID,
		d.LeadID,
		d.Stage,
		d.ApplicationNumber,
		d.BPMIDNumber,
		d.DOB,
		d.Nationality,
		d.EmiratesID,
		d.PassportNumber,
		d.SalaryBank,
		d.AECBScore,
		d.ProfessionalEmail,
		d.IBANNumber,
		d.CompanyLandline,
		d.CompanyWebsite,
		d.SubmittedDate,
		d.CompletedDate,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	return mapErr(err)
}

func (r *DealRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1 AND user_id = $2`

	deal, err := scanDeal(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapErr(err)
	}
	return deal, nil
}

func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	query := `
		UPDATE deals SET
			lead_id = $3, stage = $4, application_number = $5, bpm_id_number = $6, dob = $7,
			nationality = $8, emirates_id = $9, passport_number = $10, salary_bank = $11,
			aecb_score = $12, professional_email = $13, iban_number = $14,
			company_landline = $15, company_website = $16, submitted_date = $17,
			completed_date = $18, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		d.ID,
		d.OwnerID,
		d.LeadID,
		d.Stage,
		d.ApplicationNumber,
		d.BPMIDNumber,
		d.DOB,
		d.Nationality,
		d.EmiratesID,
		d.PassportNumber,
		d.SalaryBank,
		d.AECBScore,
		d.ProfessionalEmail,
		d.IBANNumber,
		d.CompanyLandline,
		d.CompanyWebsite,
		d.SubmittedDate,
		d.CompletedDate,
	).Scan(&d.CreatedAt, &d.UpdatedAt)

	return mapErr(err)
}

func (r *DealRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM deals WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(res)
}

func (r *DealRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Deal, error) {
	query, args, err := listQuery("deals", dealColumns, dealFilters, ownerID, filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := []*entity.Deal{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

func scanDeal(row rowScanner) (*entity.Deal, error) {
	var d entity.Deal
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.LeadID,
		&d.Stage,
		&d.ApplicationNumber,
		&d.BPMIDNumber,
		&d.DOB,
		&d.Nationality,
		&d.EmiratesID,
		&d.PassportNumber,
		&d.SalaryBank,
		&d.AECBScore,
		&d.ProfessionalEmail,
		&d.IBANNumber,
		&d.CompanyLandline,
		&d.CompanyWebsite,
		&d.SubmittedDate,
		&d.CompletedDate,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
