package repository

import (
	"context"
	"fmt"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// AuditRepository stores the admin audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByUser(ctx context.Context, userID int64, page Page) ([]domain.AuditEntry, int, error)
}

type auditRepository struct {
	db persistence.DB
}

// NewAuditRepository builds repository.
func NewAuditRepository(db persistence.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO admin_audit_log (event_id, event_type, admin_id, user_id, payload)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		entry.EventID,
		entry.EventType,
		entry.AdminID,
		entry.UserID,
		entry.Payload,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *auditRepository) ListByUser(ctx context.Context, userID int64, page Page) ([]domain.AuditEntry, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM admin_audit_log WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	const query = `
        SELECT id, event_id, event_type, admin_id, user_id, payload, created_at
        FROM admin_audit_log WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var (
			entry   domain.AuditEntry
			payload map[string]any
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.EventID,
			&entry.EventType,
			&entry.AdminID,
			&entry.UserID,
			&payload,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		entry.Payload = payload
		result = append(result, entry)
	}
	return result, total, rows.Err()
}
