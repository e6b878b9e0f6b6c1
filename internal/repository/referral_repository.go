package repository

import (
	"context"
	"fmt"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// ReferralDirection selects which side of a referral the member is on.
type ReferralDirection int

const (
	// ReferralsGiven are referrals the member passed to others.
	ReferralsGiven ReferralDirection = iota
	// ReferralsReceived are referrals passed to the member.
	ReferralsReceived
	// ReferralsConverted are received referrals the member approved.
	ReferralsConverted
)

// ReferralRepository reads referral_page.
type ReferralRepository interface {
	List(ctx context.Context, userID int64, dir ReferralDirection, page Page) ([]domain.Referral, int, error)
	ConvertedValue(ctx context.Context, userID int64) (float64, error)
	Stats(ctx context.Context, userID int64) (domain.ReferralStats, error)
}

type referralRepository struct {
	db persistence.DB
}

// NewReferralRepository returns a Postgres-backed implementation.
func NewReferralRepository(db persistence.DB) ReferralRepository {
	return &referralRepository{db: db}
}

const referralColumns = `
        referral_id, user_id, username, mobile_number, whatsapp_number,
        referred_user_id, referred_username, referred_mobile_number, referred_whatsapp,
        referral_type, referral_title, referral_description, urgency, estimated_completion_date,
        total_business_value::float8, COALESCE(is_approved, false), COALESCE(is_rejected, false),
        accepted_by, rejected_by, testimonial_given_id, created_at`

func referralWhere(dir ReferralDirection) string {
	switch dir {
	case ReferralsReceived:
		return "referred_user_id = $1"
	case ReferralsConverted:
		return "referred_user_id = $1 AND COALESCE(is_approved, false) = true"
	default:
		return "user_id = $1"
	}
}

func (r *referralRepository) List(ctx context.Context, userID int64, dir ReferralDirection, page Page) ([]domain.Referral, int, error) {
	where := referralWhere(dir)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM referral_page WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count referrals: %w", err)
	}

	query := `SELECT` + referralColumns + `
          FROM referral_page
         WHERE ` + where + `
         ORDER BY COALESCE(created_at, NOW()) DESC
         LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list referrals: %w", err)
	}
	defer rows.Close()

	result := []domain.Referral{}
	for rows.Next() {
		var ref domain.Referral
		if err := rows.Scan(
			&ref.ID,
			&ref.FromUserID,
			&ref.FromUsername,
			&ref.FromMobile,
			&ref.FromWhatsapp,
			&ref.ToUserID,
			&ref.ToUsername,
			&ref.ToMobile,
			&ref.ToWhatsapp,
			&ref.Type,
			&ref.Title,
			&ref.Description,
			&ref.Urgency,
			&ref.CompletionDate,
			&ref.BusinessValue,
			&ref.IsApproved,
			&ref.IsRejected,
			&ref.AcceptedBy,
			&ref.RejectedBy,
			&ref.TestimonialGivenID,
			&ref.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, ref)
	}
	return result, total, rows.Err()
}

func (r *referralRepository) ConvertedValue(ctx context.Context, userID int64) (float64, error) {
	const query = `
        SELECT COALESCE(SUM(total_business_value), 0)::float8
          FROM referral_page
         WHERE referred_user_id = $1
           AND COALESCE(is_approved, false) = true`

	var sum float64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum converted referrals: %w", err)
	}
	return sum, nil
}

// Stats computes the four profile KPIs in one round trip.
func (r *referralRepository) Stats(ctx context.Context, userID int64) (domain.ReferralStats, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE user_id = $1)::int,
            COUNT(*) FILTER (WHERE referred_user_id = $1)::int,
            COUNT(*) FILTER (WHERE referred_user_id = $1 AND COALESCE(is_approved, false))::int,
            COALESCE(SUM(total_business_value) FILTER (WHERE referred_user_id = $1 AND COALESCE(is_approved, false)), 0)::float8
          FROM referral_page
         WHERE user_id = $1 OR referred_user_id = $1`

	var stats domain.ReferralStats
	if err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Given,
		&stats.Received,
		&stats.Converted,
		&stats.RevenueGenerated,
	); err != nil {
		return domain.ReferralStats{}, fmt.Errorf("referral stats: %w", err)
	}
	return stats, nil
}
