package repository

import (
	"context"
	"fmt"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// ReferenceRepository manages the club and industry master tables.
type ReferenceRepository interface {
	ClubExists(ctx context.Context, districtID, clubName string, clubID *string) (bool, error)
	InsertClub(ctx context.Context, club domain.Club) error
	IndustryExists(ctx context.Context, industry, classification string) (bool, error)
	InsertIndustry(ctx context.Context, industry domain.Industry) error
}

type referenceRepository struct {
	db persistence.DB
}

// NewReferenceRepository returns a Postgres-backed implementation.
func NewReferenceRepository(db persistence.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

// ClubExists compares district and club name case-insensitively; a
// non-nil clubID also matches on club_id.
func (r *referenceRepository) ClubExists(ctx context.Context, districtID, clubName string, clubID *string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM district_master
             WHERE (LOWER(district_id) = LOWER($1) AND LOWER(club_name) = LOWER($2))
                OR ($3::text IS NOT NULL AND club_id = $3)
        )`

	var exists bool
	if err := r.db.QueryRow(ctx, query, districtID, clubName, clubID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check club: %w", err)
	}
	return exists, nil
}

func (r *referenceRepository) InsertClub(ctx context.Context, club domain.Club) error {
	const query = `
        INSERT INTO district_master (district_id, club_name, zone_name, club_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())`

	if _, err := r.db.Exec(ctx, query, club.DistrictID, club.ClubName, club.ZoneName, club.ClubID); err != nil {
		return fmt.Errorf("insert club: %w", err)
	}
	return nil
}

func (r *referenceRepository) IndustryExists(ctx context.Context, industry, classification string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM category_classification
             WHERE LOWER(industry) = LOWER($1)
               AND LOWER(classification) = LOWER($2)
        )`

	var exists bool
	if err := r.db.QueryRow(ctx, query, industry, classification).Scan(&exists); err != nil {
		return false, fmt.Errorf("check industry: %w", err)
	}
	return exists, nil
}

func (r *referenceRepository) InsertIndustry(ctx context.Context, industry domain.Industry) error {
	const query = `
        INSERT INTO category_classification (industry, classification, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())`

	if _, err := r.db.Exec(ctx, query, industry.Industry, industry.Classification); err != nil {
		return fmt.Errorf("insert industry: %w", err)
	}
	return nil
}
