package repository

import (
	"context"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// AdminRepository defines persistence access for panel operators.
type AdminRepository interface {
	GetByLogin(ctx context.Context, login string) (*domain.Admin, error)
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	// Create inserts the admin unless the email or mobile number is taken.
	Create(ctx context.Context, admin *domain.Admin) (bool, error)
}

type adminRepository struct {
	db persistence.DB
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(db persistence.DB) AdminRepository {
	return &adminRepository{db: db}
}

// GetByLogin matches either the mobile number or the email address.
func (r *adminRepository) GetByLogin(ctx context.Context, login string) (*domain.Admin, error) {
	const query = `
        SELECT admin_id, COALESCE(first_name, ''), COALESCE(mobile_number, ''), COALESCE(email_id, ''), password
          FROM admin
         WHERE mobile_number = $1 OR email_id = $1
         LIMIT 1`

	return scanAdmin(r.db.QueryRow(ctx, query, login))
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	const query = `
        SELECT admin_id, COALESCE(first_name, ''), COALESCE(mobile_number, ''), COALESCE(email_id, ''), password
          FROM admin
         WHERE admin_id = $1`

	return scanAdmin(r.db.QueryRow(ctx, query, id))
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) (bool, error) {
	const query = `
        INSERT INTO admin (first_name, mobile_number, email_id, password)
        VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
        ON CONFLICT DO NOTHING
        RETURNING admin_id`

	err := r.db.QueryRow(ctx, query,
		admin.FirstName,
		admin.MobileNumber,
		admin.Email,
		admin.PasswordHash,
	).Scan(&admin.ID)
	if IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanAdmin(row interface{ Scan(...any) error }) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.MobileNumber,
		&admin.Email,
		&admin.PasswordHash,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
