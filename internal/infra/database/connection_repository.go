package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const connectionColumns = `id, user_id, full_name, dob, gender, nationality, passport_number,
	emirates_id, mobile_number, whatsapp_number, email, location, employment_status,
	company_name, company_website, company_landline, work_email, designation,
	monthly_salary, salary_bank, aecb_score, iban_number, created_at, updated_at`

var connectionFilters = map[string]string{
	"email":    "email",
	"location": "location",
}

// ConnectionRepository stores onboarded clients. Not to be confused with
// the pool opened by NewDBConnection.
type ConnectionRepository struct {
	DB *sql.DB
}

func NewConnectionRepository(db *sql.DB) *ConnectionRepository {
	return &ConnectionRepository{DB: db}
}

func (r *ConnectionRepository) Create(ctx context.Context, c *entity.Connection) error {
	query := `
		INSERT INTO connections (user_id, full_name, dob, gender, nationality, passport_number,
			emirates_id, mobile_number, whatsapp_number, email, location, employment_status,
			company_name, company_website, company_landline, work_email, designation,
			monthly_salary, salary_bank, aecb_score, iban_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		c.OwnerID,
		c.FullName,
		c.DOB,
		c.Gender,
		c.Nationality,
		c.PassportNumber,
		c.EmiratesID,
		c.MobileNumber,
		c.WhatsAppNumber,
		c.Email,
		c.Location,
		c.EmploymentStatus,
		c.CompanyName,
		c.CompanyWebsite,
		c.CompanyLandline,
		c.WorkEmail,
		c.Designation,
		c.MonthlySalary,
		c.SalaryBank,
		c.AECBScore,
		c.IBANNumber,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return mapErr(err)
}

func (r *ConnectionRepository) FindByID(ctx context.Context, ownerID string, id int64) (*entity.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1 AND user_id = $2`

	conn, err := scanConnection(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapErr(err)
	}
	return conn, nil
}

func (r *ConnectionRepository) Update(ctx context.Context, c *entity.Connection) error {
	query := `
		UPDATE connections SET
			full_name = $3, dob = $4, gender = $5, nationality = $6, passport_number = $7,
			emirates_id = $8, mobile_number = $9, whatsapp_number = $10, email = $11,
			location = $12, employment_status = $13, company_name = $14,
			company_website = $15, company_landline = $16, work_email = $17,
			designation = $18, monthly_salary = $19, salary_bank = $20, aecb_score = $21,
			iban_number = $22, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		c.ID,
		c.OwnerID,
		c.FullName,
		c.DOB,
		c.Gender,
		c.Nationality,
		c.PassportNumber,
		c.EmiratesID,
		c.MobileNumber,
		c.WhatsAppNumber,
		c.Email,
		c.Location,
		c.EmploymentStatus,
		c.CompanyName,
		c.CompanyWebsite,
		c.CompanyLandline,
		c.WorkEmail,
		c.Designation,
		c.MonthlySalary,
		c.SalaryBank,
		c.AECBScore,
		c.IBANNumber,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	return mapErr(err)
}

func (r *ConnectionRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM connections WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(res)
}

func (r *ConnectionRepository) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*entity.Connection, error) {
	query, args, err := listQuery("connections", connectionColumns, connectionFilters, ownerID, filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conns := []*entity.Connection{}
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	return conns, rows.Err()
}

func scanConnection(row rowScanner) (*entity.Connection, error) {
	var c entity.Connection
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.FullName,
		&c.DOB,
		&c.Gender,
		&c.Nationality,
		&c.PassportNumber,
		&c.EmiratesID,
		&c.MobileNumber,
		&c.WhatsAppNumber,
		&c.Email,
		&c.Location,
		&c.EmploymentStatus,
		&c.CompanyName,
		&c.CompanyWebsite,
		&c.CompanyLandline,
		&c.WorkEmail,
		&c.Designation,
		&c.MonthlySalary,
		&c.SalaryBank,
		&c.AECBScore,
		&c.IBANNumber,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
