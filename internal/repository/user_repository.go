package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// UserTx exposes the statements allowed inside a status transition.
type UserTx interface {
	GetForUpdate(ctx context.Context, id int64) (*domain.User, error)
	SetStatus(ctx context.Context, id int64, status domain.UserStatus) error
}

// UserLifecycleRepository owns the users.status column.
type UserLifecycleRepository interface {
	// WithinTx commits only when fn returns nil.
	WithinTx(ctx context.Context, fn func(tx UserTx) error) error
	// SuspendUnlessSuspended reports whether a row changed.
	SuspendUnlessSuspended(ctx context.Context, id int64) (bool, error)
	GetStatus(ctx context.Context, id int64) (domain.UserStatus, error)
}

// UserRepository defines read and import access for member accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	Search(ctx context.Context, filter UserSearch) ([]domain.User, int, error)
	ListMailRecipients(ctx context.Context, status *domain.UserStatus) ([]domain.User, error)
	InsertIgnoringConflicts(ctx context.Context, user domain.NewUser) (bool, error)
}

// UserFilter defines query params for member listing.
type UserFilter struct {
	Status *domain.UserStatus
	Page   Page
}

// UserSearch selects members by one whitelisted attribute.
type UserSearch struct {
	Attribute string
	Query     string
	Page      Page
}

var searchColumns = map[string]string{
	"email":         "email",
	"firstname":     "firstname",
	"lastname":      "lastname",
	"mobile_number": "mobile_number",
	"district_id":   "district_id",
	"club_name":     "club_name",
}

// IsSearchable reports whether attr may be used in UserSearch.
func IsSearchable(attr string) bool {
	_, ok := searchColumns[attr]
	return ok
}

const userColumns = `
        user_id, COALESCE(firstname, ''), COALESCE(lastname, ''), COALESCE(email, ''),
        COALESCE(mobile_number, ''), district_id, COALESCE(club_name, ''), COALESCE(rotary_id, ''),
        status, created_at, updated_at`

// UserStore is the Postgres implementation of UserRepository and
// UserLifecycleRepository.
type UserStore struct {
	db persistence.DB
}

// NewUserStore builds a UserStore.
func NewUserStore(db persistence.DB) *UserStore {
	return &UserStore{db: db}
}

func (r *UserStore) WithinTx(ctx context.Context, fn func(tx UserTx) error) error {
	return persistence.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&userTx{tx: tx})
	})
}

func (r *UserStore) SuspendUnlessSuspended(ctx context.Context, id int64) (bool, error) {
	const query = `
        UPDATE users
           SET status = 'SUSPENDED', updated_at = NOW()
         WHERE user_id = $1
           AND status <> 'SUSPENDED'`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("suspend user %d: %w", id, err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *UserStore) GetStatus(ctx context.Context, id int64) (domain.UserStatus, error) {
	const query = `SELECT status FROM users WHERE user_id = $1`

	var status string
	if err := r.db.QueryRow(ctx, query, id).Scan(&status); err != nil {
		return "", err
	}
	return domain.UserStatus(status), nil
}

func (r *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserStore) List(ctx context.Context, filter UserFilter) ([]domain.User, int, error) {
	where := "TRUE"
	args := []any{}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = fmt.Sprintf("status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, filter.Page.Limit, filter.Page.Offset)
	query := fmt.Sprintf(`SELECT%s FROM users WHERE %s ORDER BY user_id LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	users, err := r.queryUsers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserStore) Search(ctx context.Context, filter UserSearch) ([]domain.User, int, error) {
	col, ok := searchColumns[filter.Attribute]
	if !ok {
		return nil, 0, fmt.Errorf("unsearchable attribute %q", filter.Attribute)
	}

	var where string
	var param string
	if col == "district_id" && isDigits(filter.Query) {
		where = fmt.Sprintf("CAST(%s AS TEXT) = $1", col)
		param = trimLeadingZeros(filter.Query)
	} else {
		where = fmt.Sprintf("LOWER((%s)::text) LIKE $1", col)
		param = "%" + strings.ToLower(filter.Query) + "%"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM users WHERE `+where, param).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}

	query := `SELECT` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY user_id LIMIT $2 OFFSET $3`
	users, err := r.queryUsers(ctx, query, param, filter.Page.Limit, filter.Page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserStore) ListMailRecipients(ctx context.Context, status *domain.UserStatus) ([]domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email IS NOT NULL AND email <> ''`
	args := []any{}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $1`
	}
	query += ` ORDER BY user_id ASC`
	return r.queryUsers(ctx, query, args...)
}

func (r *UserStore) InsertIgnoringConflicts(ctx context.Context, user domain.NewUser) (bool, error) {
	const query = `
        INSERT INTO users (firstname, lastname, email, mobile_number, district_id, club_name, rotary_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 'NEW', NOW(), NOW())
        ON CONFLICT DO NOTHING`

	cmd, err := r.db.Exec(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.MobileNumber,
		user.DistrictID,
		user.ClubName,
		user.RotaryID,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *UserStore) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var status string
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.MobileNumber,
		&user.DistrictID,
		&user.ClubName,
		&user.RotaryID,
		&status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Status = domain.UserStatus(status)
	return &user, nil
}

type userTx struct {
	tx pgx.Tx
}

func (t *userTx) GetForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT user_id, COALESCE(email, ''), COALESCE(firstname, ''), COALESCE(lastname, ''), status
          FROM users
         WHERE user_id = $1
           FOR UPDATE`

	var user domain.User
	var status string
	if err := t.tx.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&status,
	); err != nil {
		return nil, err
	}
	user.Status = domain.UserStatus(status)
	return &user, nil
}

func (t *userTx) SetStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	const query = `UPDATE users SET status = $1, updated_at = NOW() WHERE user_id = $2`

	cmd, err := t.tx.Exec(ctx, query, string(status), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// IsNoRows reports whether err means the row does not exist.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
