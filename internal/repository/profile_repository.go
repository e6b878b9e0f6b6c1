package repository

import (
	"context"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/persistence"
)

// ProfileRepository reads the optional per-member profile tables. Missing
// rows yield zero values, not errors.
type ProfileRepository interface {
	GetDetail(ctx context.Context, userID int64) (domain.ProfileDetail, error)
	GetDataCollection(ctx context.Context, userID int64) (domain.DataCollection, error)
}

type profileRepository struct {
	db persistence.DB
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(db persistence.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetDetail(ctx context.Context, userID int64) (domain.ProfileDetail, error) {
	const query = `
        SELECT profile_image, district_name, club_name, designation,
               facebook_url, linked_in_url, website
          FROM profile_detail
         WHERE user_id = $1
         LIMIT 1`

	var d domain.ProfileDetail
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&d.ProfileImage,
		&d.DistrictName,
		&d.ClubName,
		&d.Designation,
		&d.FacebookURL,
		&d.LinkedInURL,
		&d.Website,
	)
	if err != nil && !IsNoRows(err) {
		return domain.ProfileDetail{}, err
	}
	return d, nil
}

func (r *profileRepository) GetDataCollection(ctx context.Context, userID int64) (domain.DataCollection, error) {
	const query = `
        SELECT profile_picture, personal_bio, legal_business_name,
               business_industry, business_category, headquarters,
               business_logo, business_description
          FROM data_collection
         WHERE user_id = $1
         LIMIT 1`

	var d domain.DataCollection
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&d.ProfilePicture,
		&d.PersonalBio,
		&d.LegalBusinessName,
		&d.BusinessIndustry,
		&d.BusinessCategory,
		&d.Headquarters,
		&d.BusinessLogo,
		&d.BusinessDescription,
	)
	if err != nil && !IsNoRows(err) {
		return domain.DataCollection{}, err
	}
	return d, nil
}
