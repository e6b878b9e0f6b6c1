package service

import (
	"context"

	"github.com/niftrix/referral-admin/internal/domain"
	"github.com/niftrix/referral-admin/internal/repository"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// HistoryRequest pages each referral list independently.
type HistoryRequest struct {
	Given     PageRequest
	Received  PageRequest
	Converted PageRequest
}

// PremiumGroups splits a member's premium purchases by service flag.
type PremiumGroups struct {
	Banners           []domain.PremiumService
	TrendingBanners   []domain.PremiumService
	FeaturedProfiles  []domain.PremiumService
	SearchPreferences []domain.PremiumService
}

// ActivityHistory is everything a member did on the platform.
type ActivityHistory struct {
	UserID         int64
	Given          *PageResult[domain.Referral]
	Received       *PageResult[domain.Referral]
	Converted      *PageResult[domain.Referral]
	ConvertedValue float64
	Premium        PremiumGroups
}

// ActivityService reads referral and premium activity of one member.
type ActivityService struct {
	referrals repository.ReferralRepository
	premium   repository.PremiumRepository
}

// NewActivityService builds the service.
func NewActivityService(referrals repository.ReferralRepository, premium repository.PremiumRepository) *ActivityService {
	return &ActivityService{referrals: referrals, premium: premium}
}

// History returns the three referral pages and the grouped premium rows.
func (s *ActivityService) History(ctx context.Context, userID int64, req HistoryRequest) (*ActivityHistory, error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}

	history := &ActivityHistory{UserID: userID}
	var err error
	if history.Given, err = s.referralPage(ctx, userID, repository.ReferralsGiven, req.Given); err != nil {
		return nil, err
	}
	if history.Received, err = s.referralPage(ctx, userID, repository.ReferralsReceived, req.Received); err != nil {
		return nil, err
	}
	if history.Converted, err = s.referralPage(ctx, userID, repository.ReferralsConverted, req.Converted); err != nil {
		return nil, err
	}
	if history.ConvertedValue, err = s.referrals.ConvertedValue(ctx, userID); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	rows, err := s.premium.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	history.Premium = groupPremium(rows)
	return history, nil
}

// Referrals pages one referral direction.
func (s *ActivityService) Referrals(ctx context.Context, userID int64, dir repository.ReferralDirection, req PageRequest) (*PageResult[domain.Referral], error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}
	return s.referralPage(ctx, userID, dir, req)
}

// Premium pages one premium service kind.
func (s *ActivityService) Premium(ctx context.Context, userID int64, kind domain.PremiumKind, req PageRequest) (*PageResult[domain.PremiumService], error) {
	if userID <= 0 {
		return nil, apperrors.NewValidationError("invalid userId", nil)
	}
	req = req.Normalize(DefaultLimit)

	rows, total, err := s.premium.ListForUserByKind(ctx, userID, kind, req.window())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, rows), nil
}

func (s *ActivityService) referralPage(ctx context.Context, userID int64, dir repository.ReferralDirection, req PageRequest) (*PageResult[domain.Referral], error) {
	req = req.Normalize(DefaultLimit)
	rows, total, err := s.referrals.List(ctx, userID, dir, req.window())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newPageResult(req, total, rows), nil
}

// groupPremium places a row in every group whose flag it carries.
func groupPremium(rows []domain.PremiumService) PremiumGroups {
	groups := PremiumGroups{
		Banners:           []domain.PremiumService{},
		TrendingBanners:   []domain.PremiumService{},
		FeaturedProfiles:  []domain.PremiumService{},
		SearchPreferences: []domain.PremiumService{},
	}
	for _, row := range rows {
		if row.IsPremiumBanner {
			groups.Banners = append(groups.Banners, row)
		}
		if row.IsTrendingBanner {
			groups.TrendingBanners = append(groups.TrendingBanners, row)
		}
		if row.IsFeaturedProfile {
			groups.FeaturedProfiles = append(groups.FeaturedProfiles, row)
		}
		if row.IsSearchPreference {
			groups.SearchPreferences = append(groups.SearchPreferences, row)
		}
	}
	return groups
}
