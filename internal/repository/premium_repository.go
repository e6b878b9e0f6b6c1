package repository

import (
	"context"
	"fmt"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// PaymentCriteria filters the premium payments listing.
type PaymentCriteria string

const (
	PaymentCriteriaAll              PaymentCriteria = "all"
	PaymentCriteriaSuccess          PaymentCriteria = "payment-success"
	PaymentCriteriaFailed           PaymentCriteria = "payment-failed"
	PaymentCriteriaPremiumBanner    PaymentCriteria = "premium-banner"
	PaymentCriteriaTrendingBanner   PaymentCriteria = "trending-banner"
	PaymentCriteriaSearchPreference PaymentCriteria = "search-preference"
	PaymentCriteriaFeaturedProfile  PaymentCriteria = "featured-profile"
)

// PremiumRepository reads the premium table.
type PremiumRepository interface {
	ListForUser(ctx context.Context, userID int64) ([]domain.PremiumService, error)
	ListForUserByKind(ctx context.Context, userID int64, kind domain.PremiumKind, page Page) ([]domain.PremiumService, int, error)
	ListPayments(ctx context.Context, criteria PaymentCriteria, page Page) ([]domain.PremiumService, int, error)
	ListBanners(ctx context.Context, page Page) ([]domain.PremiumService, int, error)
}

type premiumRepository struct {
	db persistence.DB
}

// NewPremiumRepository returns a Postgres-backed implementation.
func NewPremiumRepository(db persistence.DB) PremiumRepository {
	return &premiumRepository{db: db}
}

const premiumColumns = `
        p.premium_id, p.user_id, p.dates, p.banner_url, p.amount::float8, p.currency,
        COALESCE(p.is_successful, false), COALESCE(p.is_premium_banner, false),
        COALESCE(p.is_trending_banner, false), COALESCE(p.is_search_preference, false),
        COALESCE(p.is_featured_profile, false), p.trending_banner_slot_no::bigint, p.order_id,
        p.created_at, p.updated_at`

const ownerColumns = `, u.firstname, u.lastname, u.email`

func kindWhere(kind domain.PremiumKind) (string, error) {
	switch kind {
	case domain.PremiumKindBanner:
		return "COALESCE(p.is_premium_banner, false) = true", nil
	case domain.PremiumKindTrendingBanner:
		return "COALESCE(p.is_trending_banner, false) = true", nil
	case domain.PremiumKindSearchPreference:
		return "COALESCE(p.is_search_preference, false) = true", nil
	case domain.PremiumKindFeaturedProfile:
		return "COALESCE(p.is_featured_profile, false) = true", nil
	}
	return "", fmt.Errorf("unknown premium kind %q", kind)
}

// CriteriaWhere maps a payment criteria to its predicate; unknown values
// select everything.
func CriteriaWhere(criteria PaymentCriteria) string {
	switch criteria {
	case PaymentCriteriaSuccess:
		return "COALESCE(p.is_successful, false) = true"
	case PaymentCriteriaFailed:
		return "COALESCE(p.is_successful, false) = false"
	case PaymentCriteriaPremiumBanner, PaymentCriteriaTrendingBanner,
		PaymentCriteriaSearchPreference, PaymentCriteriaFeaturedProfile:
		where, _ := kindWhere(domain.PremiumKind(criteria))
		return where
	default:
		return "1=1"
	}
}

func (r *premiumRepository) ListForUser(ctx context.Context, userID int64) ([]domain.PremiumService, error) {
	query := `SELECT` + premiumColumns + `
          FROM premium p
         WHERE p.user_id = $1
         ORDER BY COALESCE(p.created_at, NOW()) DESC`

	return r.query(ctx, false, query, userID)
}

func (r *premiumRepository) ListForUserByKind(ctx context.Context, userID int64, kind domain.PremiumKind, page Page) ([]domain.PremiumService, int, error) {
	where, err := kindWhere(kind)
	if err != nil {
		return nil, 0, err
	}
	where = "p.user_id = $1 AND " + where

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM premium p WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count premium: %w", err)
	}

	query := `SELECT` + premiumColumns + `
          FROM premium p
         WHERE ` + where + `
         ORDER BY p.created_at DESC NULLS LAST
         LIMIT $2 OFFSET $3`

	items, err := r.query(ctx, false, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *premiumRepository) ListPayments(ctx context.Context, criteria PaymentCriteria, page Page) ([]domain.PremiumService, int, error) {
	return r.listWithOwner(ctx, CriteriaWhere(criteria), page)
}

func (r *premiumRepository) ListBanners(ctx context.Context, page Page) ([]domain.PremiumService, int, error) {
	return r.listWithOwner(ctx, "COALESCE(p.is_premium_banner, false) OR COALESCE(p.is_trending_banner, false)", page)
}

func (r *premiumRepository) listWithOwner(ctx context.Context, where string, page Page) ([]domain.PremiumService, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)::int FROM premium p WHERE `+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count premium: %w", err)
	}

	query := `SELECT` + premiumColumns + ownerColumns + `
          FROM premium p
          LEFT JOIN users u ON u.user_id = p.user_id
         WHERE ` + where + `
         ORDER BY p.created_at DESC NULLS LAST
         LIMIT $1 OFFSET $2`

	items, err := r.query(ctx, true, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *premiumRepository) query(ctx context.Context, withOwner bool, query string, args ...any) ([]domain.PremiumService, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query premium: %w", err)
	}
	defer rows.Close()

	result := []domain.PremiumService{}
	for rows.Next() {
		var p domain.PremiumService
		var dates []byte
		dest := []any{
			&p.ID,
			&p.UserID,
			&dates,
			&p.BannerURL,
			&p.Amount,
			&p.Currency,
			&p.IsSuccessful,
			&p.IsPremiumBanner,
			&p.IsTrendingBanner,
			&p.IsSearchPreference,
			&p.IsFeaturedProfile,
			&p.TrendingBannerSlotNo,
			&p.OrderID,
			&p.CreatedAt,
			&p.UpdatedAt,
		}
		if withOwner {
			dest = append(dest, &p.OwnerFirstName, &p.OwnerLastName, &p.OwnerEmail)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if len(dates) > 0 {
			p.Dates = dates
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
